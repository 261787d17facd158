package cache

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Header set on every response passing a Transport with a store.
const HeaderXCache = "X-Cache"

// Transport serves GET requests from a Store and fills it with 200
// responses. Concurrent misses on one key share a single upstream call.
// Without a store it passes requests straight through.
type Transport struct {
	next       http.RoundTripper
	store      atomic.Pointer[storeBox]
	defaultTTL time.Duration
	logFn      func() *slog.Logger
	group      singleflight.Group
}

// storeBox lets an interface value live in an atomic.Pointer.
type storeBox struct {
	Store
}

// Option configures a Transport.
type Option func(*Transport)

// WithDefaultTTL sets the lifetime of responses lacking max-age.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(t *Transport) {
		if ttl > 0 {
			t.defaultTTL = ttl
		}
	}
}

// WithLogger resolves a logger for store failures, which never fail a request.
func WithLogger(fn func() *slog.Logger) Option {
	return func(t *Transport) {
		if fn != nil {
			t.logFn = fn
		}
	}
}

// NewTransport returns a Transport using store, which may be nil.
// The next hop is attached with Wrap.
func NewTransport(store Store, opts ...Option) *Transport {
	t := &Transport{
		next:       http.DefaultTransport,
		defaultTTL: DefaultTTL,
		logFn:      slog.Default,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.SetStore(store)

	return t
}

// Wrap attaches next and returns t, matching client.WithMiddleware.
func (t *Transport) Wrap(next http.RoundTripper) http.RoundTripper {
	if next != nil {
		t.next = next
	}
	return t
}

// SetStore swaps the store; nil disables caching.
func (t *Transport) SetStore(s Store) {
	if s == nil {
		t.store.Store(nil)
		return
	}
	t.store.Store(&storeBox{s})
}

// Store returns the current store or nil.
func (t *Transport) Store() Store {
	box := t.store.Load()
	if box == nil {
		return nil
	}
	return box.Store
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	store := t.Store()
	if store == nil || r.Method != http.MethodGet || hasDirective(r.Header, "no-store") {
		return t.next.RoundTrip(r)
	}

	ctx := r.Context()
	key := Key(r)

	if !hasDirective(r.Header, "no-cache") {
		data, ok, err := store.Get(ctx, key)
		if err != nil {
			t.logFn().Warn("cache read failed", "error", err)
		}
		if ok {
			resp, err := decode(data, r)
			if err == nil {
				resp.Header.Set(HeaderXCache, "HIT")
				return resp, nil
			}
			t.logFn().Warn("dropping corrupt cache entry", "error", err)
			_ = store.Delete(ctx, key)
		}
	}

	// The shared fetch outlives any single caller's cancellation; each
	// caller still stops waiting on its own context.
	ch := t.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := detach(ctx)
		defer cancel()

		resp, err := t.next.RoundTrip(r.WithContext(fetchCtx))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		dump, err := httputil.DumpResponse(resp, true)
		if err != nil {
			return nil, fmt.Errorf("buffering response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			if ttl, ok := t.ttl(resp.Header); ok {
				if err := store.Set(fetchCtx, key, dump, ttl); err != nil {
					t.logFn().Warn("cache write failed", "error", err)
				}
			}
		}

		return dump, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	resp, err := decode(res.Val.([]byte), r)
	if err != nil {
		return nil, err
	}
	resp.Header.Set(HeaderXCache, "MISS")

	return resp, nil
}

// detach drops ctx's cancellation but keeps its deadline, so a fetch
// shared by several callers is still bounded by the client timeout.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, dl)
	}
	return context.WithCancel(base)
}

// ttl derives an entry lifetime from Cache-Control. ok is false when
// the response must not be stored.
func (t *Transport) ttl(h http.Header) (time.Duration, bool) {
	if hasDirective(h, "no-store") || hasDirective(h, "private") {
		return 0, false
	}

	for _, d := range directives(h) {
		v, found := strings.CutPrefix(d, "max-age=")
		if !found {
			continue
		}
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	return t.defaultTTL, true
}

func directives(h http.Header) []string {
	var out []string
	for _, v := range h.Values("Cache-Control") {
		for d := range strings.SplitSeq(v, ",") {
			out = append(out, strings.ToLower(strings.TrimSpace(d)))
		}
	}
	return out
}

func hasDirective(h http.Header, name string) bool {
	for _, d := range directives(h) {
		if d == name {
			return true
		}
	}
	return false
}

func decode(data []byte, r *http.Request) (*http.Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), r)
	if err != nil {
		return nil, fmt.Errorf("decoding cached response: %w", err)
	}

	// Read eagerly so the body does not depend on the shared buffer.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading cached body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.TransferEncoding = nil

	return resp, nil
}
