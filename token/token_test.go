package token_test

import (
	"testing"

	"github.com/adamwoolhether/tmdb/token"
)

func TestIsZero(t *testing.T) {
	if !token.APIToken("").IsZero() {
		t.Error("empty api token should be zero")
	}
	if !token.SessionToken("   ").IsZero() {
		t.Error("blank session token should be zero")
	}
	if token.BearerToken("abc").IsZero() {
		t.Error("non-empty bearer token should not be zero")
	}
}

func TestBearerHeader(t *testing.T) {
	if got := token.BearerToken("xyz").Header(); got != "Bearer xyz" {
		t.Errorf("exp %q, got %q", "Bearer xyz", got)
	}
}

func TestRedact(t *testing.T) {
	testCases := map[string]string{
		"":                                         "",
		"abc":                                      "***",
		"abcdef":                                   "**cdef",
		"80b2bf99520cd795ff54e31af97917bc9e3a7c8c": "************************************7c8c",
	}

	for in, exp := range testCases {
		if got := token.Redact(in); got != exp {
			t.Errorf("Redact(%q): exp %q, got %q", in, exp, got)
		}
	}
}
