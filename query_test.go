package tmdb_test

import (
	"net/url"
	"testing"

	"github.com/adamwoolhether/tmdb"
)

func TestQueryOptions(t *testing.T) {
	testCases := map[string]struct {
		opts   []tmdb.QueryOption
		exp    url.Values
		expErr bool
	}{
		"language":        {opts: []tmdb.QueryOption{tmdb.Language("nl-NL")}, exp: url.Values{"language": {"nl-NL"}}},
		"badLanguage":     {opts: []tmdb.QueryOption{tmdb.Language("not a tag!")}, expErr: true},
		"regionCode":      {opts: []tmdb.QueryOption{tmdb.Region("nl")}, exp: url.Values{"region": {"NL"}}},
		"regionName":      {opts: []tmdb.QueryOption{tmdb.Region("Netherlands")}, exp: url.Values{"region": {"NL"}}},
		"badRegion":       {opts: []tmdb.QueryOption{tmdb.Region("Atlantis")}, expErr: true},
		"append":          {opts: []tmdb.QueryOption{tmdb.Append("credits", " images ")}, exp: url.Values{"append_to_response": {"credits,images"}}},
		"appendMerges":    {opts: []tmdb.QueryOption{tmdb.Append("credits", "images"), tmdb.Append("images", "videos")}, exp: url.Values{"append_to_response": {"credits,images,videos"}}},
		"appendNothing":   {opts: []tmdb.QueryOption{tmdb.Append(" ", "")}, expErr: true},
		"firstPage":       {opts: []tmdb.QueryOption{tmdb.OnPage(1)}, exp: url.Values{"page": {"1"}}},
		"lastPage":        {opts: []tmdb.QueryOption{tmdb.OnPage(tmdb.MaxPage)}, exp: url.Values{"page": {"500"}}},
		"pageZero":        {opts: []tmdb.QueryOption{tmdb.OnPage(0)}, expErr: true},
		"pagePastMax":     {opts: []tmdb.QueryOption{tmdb.OnPage(tmdb.MaxPage + 1)}, expErr: true},
		"param":           {opts: []tmdb.QueryOption{tmdb.Param("year", "1999")}, exp: url.Values{"year": {"1999"}}},
		"paramOverwrites": {opts: []tmdb.QueryOption{tmdb.Param("year", "1999"), tmdb.Param("year", "2000")}, exp: url.Values{"year": {"2000"}}},
		"paramNoKey":      {opts: []tmdb.QueryOption{tmdb.Param("", "x")}, expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			v := url.Values{}

			var err error
			for _, opt := range tc.opts {
				if err = opt(v); err != nil {
					break
				}
			}

			if tc.expErr {
				if err == nil {
					t.Fatal("exp error")
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}
			if v.Encode() != tc.exp.Encode() {
				t.Errorf("exp %q, got %q", tc.exp.Encode(), v.Encode())
			}
		})
	}
}
