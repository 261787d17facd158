package listener

import (
	"context"
	"sync/atomic"

	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/token"
)

// QueryToken adds a credential as a query parameter. The credential can
// be replaced at any time with Set; an empty credential adds nothing.
type QueryToken struct {
	param string
	value atomic.Pointer[string]
}

// APIToken sends t as the api_key query parameter.
func APIToken(t token.APIToken) *QueryToken {
	return newQueryToken("api_key", t.String())
}

// SessionToken sends t as the session_id query parameter.
func SessionToken(t token.SessionToken) *QueryToken {
	return newQueryToken("session_id", t.String())
}

// GuestSessionToken sends t as the guest_session_id query parameter.
func GuestSessionToken(t token.GuestSessionToken) *QueryToken {
	return newQueryToken("guest_session_id", t.String())
}

func newQueryToken(param, value string) *QueryToken {
	q := &QueryToken{param: param}
	q.Set(value)
	return q
}

// Set replaces the credential.
func (q *QueryToken) Set(value string) {
	q.value.Store(&value)
}

// Value returns the current credential.
func (q *QueryToken) Value() string {
	return *q.value.Load()
}

func (q *QueryToken) Handle(_ context.Context, ev event.Event) error {
	br, ok := ev.(*event.BeforeRequest)
	if !ok {
		return nil
	}

	v := q.Value()
	if v == "" {
		return nil
	}

	query := br.Request.URL.Query()
	if query.Has(q.param) {
		return nil
	}
	query.Set(q.param, v)
	br.Request.URL.RawQuery = query.Encode()

	return nil
}

// Bearer sends a v4 read access token in the Authorization header.
type Bearer struct {
	value atomic.Pointer[token.BearerToken]
}

// NewBearer returns a Bearer listener for t.
func NewBearer(t token.BearerToken) *Bearer {
	b := &Bearer{}
	b.Set(t)
	return b
}

// Set replaces the token.
func (b *Bearer) Set(t token.BearerToken) {
	b.value.Store(&t)
}

func (b *Bearer) Handle(_ context.Context, ev event.Event) error {
	br, ok := ev.(*event.BeforeRequest)
	if !ok {
		return nil
	}

	t := *b.value.Load()
	if t.IsZero() || br.Request.Header.Get("Authorization") != "" {
		return nil
	}
	br.Request.Header.Set("Authorization", t.Header())

	return nil
}
