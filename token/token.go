// Package token holds the credentials the remote API accepts.
//
// A v3 API key travels as the api_key query parameter. A v4 read access
// token travels as a bearer Authorization header. User sessions and guest
// sessions travel as session_id and guest_session_id query parameters.
package token

import "strings"

// APIToken is a v3 API key.
type APIToken string

// BearerToken is a v4 read access token.
type BearerToken string

// SessionToken identifies an authenticated user session.
type SessionToken string

// GuestSessionToken identifies a guest session.
type GuestSessionToken string

func (t APIToken) String() string          { return string(t) }
func (t BearerToken) String() string       { return string(t) }
func (t SessionToken) String() string      { return string(t) }
func (t GuestSessionToken) String() string { return string(t) }

func (t APIToken) IsZero() bool          { return strings.TrimSpace(string(t)) == "" }
func (t BearerToken) IsZero() bool       { return strings.TrimSpace(string(t)) == "" }
func (t SessionToken) IsZero() bool      { return strings.TrimSpace(string(t)) == "" }
func (t GuestSessionToken) IsZero() bool { return strings.TrimSpace(string(t)) == "" }

// Header returns the Authorization header value for the token.
func (t BearerToken) Header() string {
	return "Bearer " + string(t)
}

// Redact masks all but the last four characters, for logging.
func Redact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
