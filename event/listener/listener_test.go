package listener_test

import (
	"bytes"
	"errors"
	"log/slog"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/event/listener"
	"github.com/adamwoolhether/tmdb/internal/validate"
	"github.com/adamwoolhether/tmdb/token"
)

func beforeRequest(t *testing.T, method, rawURL string) *event.BeforeRequest {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, rawURL, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	return &event.BeforeRequest{ID: uuid.New(), Request: req}
}

func TestQueryTokens(t *testing.T) {
	d := event.NewDispatcher()
	api := listener.APIToken(token.APIToken("abcdef"))
	d.AddListener(event.NameBeforeRequest, api, 0)
	d.AddListener(event.NameBeforeRequest, listener.SessionToken("80b2bf99"), 0)
	d.AddListener(event.NameBeforeRequest, listener.GuestSessionToken(""), 0)

	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550")
	if err := d.Dispatch(t.Context(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	q := ev.Request.URL.Query()
	if got := q.Get("api_key"); got != "abcdef" {
		t.Errorf("api_key: exp %q, got %q", "abcdef", got)
	}
	if got := q.Get("session_id"); got != "80b2bf99" {
		t.Errorf("session_id: exp %q, got %q", "80b2bf99", got)
	}
	if q.Has("guest_session_id") {
		t.Error("empty guest session must not be sent")
	}

	api.Set("xyz")
	ev = beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550")
	if err := d.Dispatch(t.Context(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := ev.Request.URL.Query().Get("api_key"); got != "xyz" {
		t.Errorf("api_key after Set: exp %q, got %q", "xyz", got)
	}
}

func TestBearer(t *testing.T) {
	b := listener.NewBearer("v4token")

	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550")
	if err := b.Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := ev.Request.Header.Get("Authorization"); got != "Bearer v4token" {
		t.Errorf("exp bearer header, got %q", got)
	}

	b.Set("")
	ev = beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550")
	if err := b.Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := ev.Request.Header.Get("Authorization"); got != "" {
		t.Errorf("exp no header for empty token, got %q", got)
	}
}

func TestRegionFilter(t *testing.T) {
	testCases := []struct {
		name   string
		region string
		exp    string
		expErr error
	}{
		{name: "alpha2 lower", region: "nl", exp: "NL"},
		{name: "alpha3", region: "NLD", exp: "NL"},
		{name: "country name", region: "Netherlands", exp: "NL"},
		{name: "unknown", region: "Atlantis", expErr: listener.ErrUnknownRegion},
		{name: "empty", region: " ", expErr: listener.ErrUnknownRegion},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := listener.RegionFilter(tc.region)
			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}

			ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/19995")
			if err := f.Handle(t.Context(), ev); err != nil {
				t.Fatalf("handle: %v", err)
			}
			if got := ev.Request.URL.Query().Get("region"); got != tc.exp {
				t.Errorf("exp region %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestFilterKeepsCallerValue(t *testing.T) {
	f, err := listener.LanguageFilter("nl-NL")
	if err != nil {
		t.Fatalf("language filter: %v", err)
	}

	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550?language=de")
	if err := f.Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := ev.Request.URL.Query().Get("language"); got != "de" {
		t.Errorf("caller language must win, got %q", got)
	}
}

func TestLanguageFilterInvalid(t *testing.T) {
	_, err := listener.LanguageFilter("not a language")
	if !validate.IsFieldErrors(err) {
		t.Fatalf("expected field errors, got %v", err)
	}
}

func TestAdultFilter(t *testing.T) {
	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/search/movie?query=alien")
	if err := listener.AdultFilter(false).Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := ev.Request.URL.Query().Get("include_adult"); got != "false" {
		t.Errorf("exp include_adult=false, got %q", got)
	}
}

func TestHeaders(t *testing.T) {
	d := event.NewDispatcher()
	d.AddListener(event.NameBeforeRequest, listener.AcceptJSON(), 0)
	d.AddListener(event.NameBeforeRequest, listener.ContentTypeJSON(), 0)
	d.AddListener(event.NameBeforeRequest, listener.UserAgent("tmdb-go/1.0"), 0)

	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550")
	if err := d.Dispatch(t.Context(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	got := map[string]string{
		"Accept":       ev.Request.Header.Get("Accept"),
		"Content-Type": ev.Request.Header.Get("Content-Type"),
		"User-Agent":   ev.Request.Header.Get("User-Agent"),
	}
	exp := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "",
		"User-Agent":   "tmdb-go/1.0",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	req, _ := http.NewRequestWithContext(t.Context(), http.MethodPost, "https://api.themoviedb.org/3/movie/550/rating", strings.NewReader(`{"value":8}`))
	ev = &event.BeforeRequest{Request: req}
	if err := d.Dispatch(t.Context(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json;charset=utf-8" {
		t.Errorf("exp json content type on payload, got %q", got)
	}
}

func TestLogHTTPOmitsQuery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ev := beforeRequest(t, http.MethodGet, "https://api.themoviedb.org/3/movie/550?api_key=secret")
	if err := listener.LogHTTP(logger).Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "request started") || !strings.Contains(out, "/3/movie/550") {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "secret") {
		t.Errorf("credentials leaked into log: %s", out)
	}
}

func TestLogHTTPMasksCredentialsInErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rawURL := "http://127.0.0.1:1/3/movie/550?api_key=SUPERSECRETKEY&session_id=sessionsecret&language=en-US"
	ev := &event.HTTPClientError{
		ID:      uuid.New(),
		Request: beforeRequest(t, http.MethodGet, rawURL).Request,
		Err: fmt.Errorf("exec http do: %w", &url.Error{
			Op:  "Get",
			URL: rawURL,
			Err: errors.New("connection refused"),
		}),
	}
	if err := listener.LogHTTP(logger).Handle(t.Context(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	for _, secret := range []string{"SUPERSECRETKEY", "sessionsecret"} {
		if strings.Contains(out, secret) {
			t.Errorf("credential %q leaked into log: %s", secret, out)
		}
	}
	if !strings.Contains(out, "TKEY") || !strings.Contains(out, "connection refused") {
		t.Errorf("exp masked key tail and cause in log, got: %s", out)
	}
	if !strings.Contains(out, "language=en-US") {
		t.Errorf("exp non-credential params kept, got: %s", out)
	}
}
