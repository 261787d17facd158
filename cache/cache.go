// Package cache keeps successful GET responses of the remote API so
// repeated lookups of the same resource skip the network.
//
// [Transport] is an [http.RoundTripper] that consults a [Store]. Two
// stores ship with the package: [Memory] and [Dir], the latter persisting
// entries as files so a cache survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"
)

// DefaultTTL applies when a response carries no max-age directive.
const DefaultTTL = 10 * time.Minute

// ErrInvalidKey is returned by stores for keys that are not hex digests.
var ErrInvalidKey = errors.New("invalid cache key")

// Store persists raw HTTP responses by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key derives the cache key for r. Credentials in the query and the
// Authorization header take part in the key, so two sessions never share
// an entry, but only their digest is ever stored.
func Key(r *http.Request) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{' '})
	h.Write([]byte(r.URL.String()))
	h.Write([]byte{'\n'})
	h.Write([]byte(r.Header.Get("Authorization")))
	h.Write([]byte{'\n'})
	h.Write([]byte(r.Header.Get("Accept-Language")))

	return hex.EncodeToString(h.Sum(nil))
}

func validKey(key string) bool {
	if len(key) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}
