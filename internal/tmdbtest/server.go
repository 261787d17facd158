// Package tmdbtest runs a fake API server for tests. It authenticates
// requests like the real API, serves small generated payloads and
// records every request it receives.
package tmdbtest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Credentials accepted by the server.
const (
	APIKey         = "test-api-key"
	BearerToken    = "test-read-access-token"
	SessionID      = "2629f70fb498edc263a0adb99118ac41f0053e8c"
	GuestSessionID = "1ce82ec1223641636ad4a60b07de3581"
	RequestToken   = "641bf16c663db167c6cffcdff41126039d4445bf"
	Username       = "tmdb-user"
	Password       = "tmdb-pass"
)

// NotFoundID makes every id-based route answer 404.
const NotFoundID = 404404

// Recorded is a request as received by the server.
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a fake API. Its base URI is "http://" + Host() + "/3".
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []Recorded
	overrides map[string]http.HandlerFunc
}

// New starts a Server that is closed when t ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{overrides: make(map[string]http.HandlerFunc)}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := newRouter(logger, s.record, s.override)
	rt.use(errorsMW(logger), panics())
	s.routes(rt)

	s.Server = httptest.NewServer(rt)
	t.Cleanup(s.Close)

	return s
}

// Host returns host:port of the server.
func (s *Server) Host() string {
	u, _ := url.Parse(s.URL)
	return u.Host
}

// ImageBaseURL is the image host announced by /configuration.
func (s *Server) ImageBaseURL() string {
	return s.URL + "/t/p/"
}

// Override answers method and path, e.g. "GET /3/movie/550", with h
// instead of the built-in route.
func (s *Server) Override(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overrides[method+" "+path] = h
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)

	return out
}

// LastRequest returns the most recent request. It fails t when none
// was received.
func (s *Server) LastRequest(t testing.TB) Recorded {
	t.Helper()

	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("no request received")
	}

	return reqs[len(reqs)-1]
}

// Hits counts the requests received for path.
func (s *Server) Hits(path string) int {
	var n int
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		return handler(ctx, w, r)
	}
}

func (s *Server) override(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s.mu.Lock()
		h, ok := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if ok {
			h(w, r)
			return nil
		}

		return handler(ctx, w, r)
	}
}

// authenticate accepts the API key as api_key or the read access token
// as a bearer token.
func authenticate(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if r.URL.Query().Get("api_key") != APIKey && r.Header.Get("Authorization") != "Bearer "+BearerToken {
			return errInvalidKey
		}

		return handler(ctx, w, r)
	}
}

func requireSession(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if r.URL.Query().Get("session_id") != SessionID {
			return errNoSession
		}
		return handler(ctx, w, r)
	}
}

func requireAnySession(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		if q.Get("session_id") != SessionID && q.Get("guest_session_id") != GuestSessionID {
			return errNoSession
		}
		return handler(ctx, w, r)
	}
}

// cacheable marks successful GET responses the way the API does.
func cacheable(handler Handler) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if r.Method == http.MethodGet {
			w.Header().Set("Cache-Control", "public, max-age=60")
		}
		return handler(ctx, w, r)
	}
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id < 0 {
		return 0, errBadRequest
	}
	if id == NotFoundID {
		return 0, errNotFound
	}
	return id, nil
}

func page(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func appended(r *http.Request) []string {
	v := r.URL.Query().Get("append_to_response")
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
