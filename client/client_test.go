package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/tmdb/client"
	"github.com/adamwoolhether/tmdb/client/download"
	"github.com/adamwoolhether/tmdb/client/throttle"
)

type test struct {
	*client.Client

	server    *httptest.Server
	serverURL *url.URL
	teardown  func()
}

type payload struct {
	Body string `json:"body"`
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_WithUserAgent(t *testing.T) {
	expectedUA := "TestUserAgent/1.0"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	testURL, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}

	c, err := client.Build(client.WithUserAgent(expectedUA))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), testURL, http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusOK); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestClient_WithThrottleAndUserAgent(t *testing.T) {
	expectedUA := "ThrottledAgent/1.0"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	testURL, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("failed to parse test server URL: %v", err)
	}

	c, err := client.Build(
		client.WithThrottle(100, 10),
		client.WithUserAgent(expectedUA),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	req, err := c.Request(t.Context(), testURL, http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if err := c.Do(req, http.StatusOK); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestClient_WithTransport(t *testing.T) {
	var called bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"body":"from transport"}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})

	c, err := client.Build(client.WithTransport(rt))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u, _ := url.Parse("http://example.invalid/3/movie/550")
	req, err := c.Request(t.Context(), u, http.MethodGet)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	var got payload
	if err := c.Do(req, http.StatusOK, client.WithDestination(&got)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !called {
		t.Error("custom transport was not used")
	}
	if got.Body != "from transport" {
		t.Errorf("exp body %q, got %q", "from transport", got.Body)
	}
}

func TestClient_WithTransportNil(t *testing.T) {
	if _, err := client.Build(client.WithTransport(nil)); err == nil {
		t.Fatal("expected error for nil transport")
	}
}

func TestClient_WithTimeout(t *testing.T) {
	testCases := map[string]struct {
		timeout time.Duration
		expErr  bool
	}{
		"zero":     {timeout: 0},
		"positive": {timeout: 5 * time.Second},
		"negative": {timeout: -time.Second, expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := client.Build(client.WithTimeout(tc.timeout))
			if tc.expErr != (err != nil) {
				t.Errorf("exp err: %v, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestClient_WithTimeoutExceeded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := client.Build(client.WithTimeout(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u, _ := url.Parse(ts.URL)
	req, err := c.Request(t.Context(), u, http.MethodGet)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	err = c.Do(req, http.StatusOK)
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) || !urlErr.Timeout() {
		t.Errorf("expected url timeout error, got: %v", err)
	}
}

func TestClient_WithClientCopies(t *testing.T) {
	hc := &http.Client{Timeout: 3 * time.Second}

	if _, err := client.Build(client.WithClient(hc), client.WithTimeout(time.Second), client.WithNoFollowRedirects()); err != nil {
		t.Fatalf("creating client: %v", err)
	}

	if hc.Timeout != 3*time.Second {
		t.Errorf("given client timeout mutated to %v", hc.Timeout)
	}
	if hc.CheckRedirect != nil {
		t.Error("given client CheckRedirect mutated")
	}
	if hc.Transport != nil {
		t.Error("given client Transport mutated")
	}
}

func TestClient_WithClientNil(t *testing.T) {
	if _, err := client.Build(client.WithClient(nil)); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestClient_WithClientTransport(t *testing.T) {
	var called bool
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: http.StatusNoContent, Body: http.NoBody, Request: r}, nil
	})}

	c, err := client.Build(client.WithClient(hc))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u, _ := url.Parse("http://example.invalid/")
	req, _ := c.Request(t.Context(), u, http.MethodGet)

	if err := c.Do(req, http.StatusNoContent); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !called {
		t.Error("transport of given client was not used")
	}
}

func TestClient_WithMiddlewareOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	mark := func(name string) func(http.RoundTripper) http.RoundTripper {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripFunc(func(r *http.Request) (*http.Response, error) {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return next.RoundTrip(r)
			})
		}
	}

	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		mu.Lock()
		order = append(order, "base")
		mu.Unlock()
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	c, err := client.Build(
		client.WithTransport(base),
		client.WithMiddleware(mark("first"), mark("second")),
		client.WithMiddleware(mark("third")),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u, _ := url.Parse("http://example.invalid/")
	req, _ := c.Request(t.Context(), u, http.MethodGet)
	if err := c.Do(req, http.StatusOK); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	exp := []string{"first", "second", "third", "base"}
	if diff := cmp.Diff(exp, order); diff != "" {
		t.Errorf("middleware order mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_WithMiddlewareNil(t *testing.T) {
	if _, err := client.Build(client.WithMiddleware(nil)); err == nil {
		t.Fatal("expected error for nil middleware")
	}
}

func TestClient_WithNoFollowRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/target" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/target", http.StatusFound)
	}))
	defer ts.Close()

	u, _ := url.Parse(ts.URL)

	testCases := map[string]struct {
		opts      []client.Option
		expStatus int
	}{
		"follow":   {expStatus: http.StatusOK},
		"noFollow": {opts: []client.Option{client.WithNoFollowRedirects()}, expStatus: http.StatusFound},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := client.Build(tc.opts...)
			if err != nil {
				t.Fatalf("creating client: %v", err)
			}

			req, _ := c.Request(t.Context(), u, http.MethodGet)

			var status int
			if err := c.Do(req, tc.expStatus, client.WithStatusCode(&status)); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if status != tc.expStatus {
				t.Errorf("exp status %d, got %d", tc.expStatus, status)
			}
		})
	}
}

func TestClient_WithThrottleValidation(t *testing.T) {
	_, err := client.Build(client.WithThrottle(0, 1))
	if err == nil {
		t.Fatal("expected error for zero rps")
	}
	if !errors.Is(err, throttle.ErrMustNotBeZero) {
		t.Errorf("expected ErrMustNotBeZero, got: %v", err)
	}
}

func TestClient_Do(t *testing.T) {
	test := mockServer(t)
	defer test.teardown()

	testCases := map[string]struct {
		path        string
		method      string
		expStatus   int
		accepted    []int
		payload     *payload
		captureResp *payload
		captureRaw  *map[string]any
		useJSONNumb bool
		checkResp   func(t *testing.T, raw map[string]any)
		expCode     int
		err         error
	}{
		"basicGet": {
			method:    http.MethodGet,
			expStatus: http.StatusOK,
			expCode:   http.StatusOK,
		},
		"basicExp202NotOK": {
			method:    http.MethodGet,
			expStatus: http.StatusAccepted,
			err:       client.ErrUnexpectedStatusCode,
		},
		"created": {
			path:      "/created",
			method:    http.MethodPost,
			expStatus: http.StatusOK,
			accepted:  []int{http.StatusCreated},
			payload:   &payload{Body: "rating"},
			expCode:   http.StatusCreated,
		},
		"createdNotAccepted": {
			path:      "/created",
			method:    http.MethodPost,
			expStatus: http.StatusOK,
			payload:   &payload{Body: "rating"},
			err:       client.ErrUnexpectedStatusCode,
		},
		"unauthorized": {
			path:      "/unauthorized",
			method:    http.MethodGet,
			expStatus: http.StatusOK,
			err:       client.ErrAuthFailure,
		},
		"getCaptureResp": {
			method:      http.MethodGet,
			expStatus:   http.StatusOK,
			captureResp: new(payload),
			expCode:     http.StatusOK,
		},
		"postCaptureResp": {
			path:        "/echo",
			method:      http.MethodPost,
			expStatus:   http.StatusOK,
			payload:     &payload{Body: "hey there"},
			captureResp: new(payload),
			expCode:     http.StatusOK,
		},
		"withJSONNumb": {
			path:        "/number",
			method:      http.MethodGet,
			expStatus:   http.StatusOK,
			captureRaw:  &map[string]any{},
			useJSONNumb: true,
			expCode:     http.StatusOK,
			checkResp: func(t *testing.T, raw map[string]any) {
				t.Helper()
				n, ok := raw["id"].(json.Number)
				if !ok {
					t.Fatalf("expected json.Number, got %T", raw["id"])
				}
				if n.String() != "12345678901234567" {
					t.Errorf("expected 12345678901234567, got %s", n.String())
				}
			},
		},
		"withoutJSONNumb": {
			path:       "/number",
			method:     http.MethodGet,
			expStatus:  http.StatusOK,
			captureRaw: &map[string]any{},
			expCode:    http.StatusOK,
			checkResp: func(t *testing.T, raw map[string]any) {
				t.Helper()
				if _, ok := raw["id"].(float64); !ok {
					t.Fatalf("expected float64 without UseNumber, got %T", raw["id"])
				}
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var reqOpts []client.RequestOption
			if tc.payload != nil {
				reqOpts = append(reqOpts, client.WithPayload(*tc.payload))
			}

			var status int
			opts := []client.DoOption{client.WithStatusCode(&status)}
			if tc.captureResp != nil {
				opts = append(opts, client.WithDestination(tc.captureResp))
			}
			if tc.captureRaw != nil {
				opts = append(opts, client.WithDestination(tc.captureRaw))
			}
			if tc.useJSONNumb {
				opts = append(opts, client.WithJSONNumb())
			}
			if len(tc.accepted) > 0 {
				opts = append(opts, client.WithAcceptedStatus(tc.accepted...))
			}

			u := client.URL(test.serverURL, tc.path)

			req, err := test.Request(t.Context(), u, tc.method, reqOpts...)
			if err != nil {
				t.Fatalf("generating req: %v", err)
			}

			err = test.Do(req, tc.expStatus, opts...)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("exp err: %v, got: %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}

			if status != tc.expCode {
				t.Errorf("exp status code %d, got %d", tc.expCode, status)
			}

			if tc.captureResp != nil && tc.payload != nil {
				if diff := cmp.Diff(tc.payload, tc.captureResp); diff != "" {
					t.Errorf("expected identical body from echo server (-want +got):\n%s", diff)
				}
			}

			if tc.checkResp != nil && tc.captureRaw != nil {
				tc.checkResp(t, *tc.captureRaw)
			}
		})
	}
}

func TestClient_DoUnexpectedStatusError(t *testing.T) {
	test := mockServer(t)
	defer test.teardown()

	req, err := test.Request(t.Context(), client.URL(test.serverURL, "/large"), http.MethodGet)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	err = test.Do(req, http.StatusOK)

	var statusErr *client.UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected UnexpectedStatusError, got: %T %v", err, err)
	}

	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("exp status %d, got %d", http.StatusInternalServerError, statusErr.StatusCode)
	}
	if len(statusErr.Body) != 4<<10 {
		t.Errorf("exp error body capped at %d bytes, got %d", 4<<10, len(statusErr.Body))
	}
	if statusErr.Header.Get("X-Trace") != "large" {
		t.Errorf("exp response header to be kept, got %v", statusErr.Header)
	}
	if errors.Is(err, client.ErrAuthFailure) {
		t.Error("5xx must not be an auth failure")
	}
}

func TestClient_DoInvalidDestination(t *testing.T) {
	test := mockServer(t)
	defer test.teardown()

	req, _ := test.Request(t.Context(), client.URL(test.serverURL, "/"), http.MethodGet)

	var dest *payload
	if err := test.Do(req, http.StatusOK, client.WithDestination(dest)); err == nil {
		t.Fatal("expected error for nil destination")
	}

	if err := test.Do(req, http.StatusOK, client.WithStatusCode(nil)); err == nil {
		t.Fatal("expected error for nil status code destination")
	}
}

func TestClient_Request(t *testing.T) {
	base, _ := url.Parse("https://localhost:8888")

	testCases := map[string]struct {
		method      string
		payload     *payload
		contentType string
		headers     map[string][]string
		expCT       string
	}{
		"basic": {
			method: http.MethodGet,
		},
		"withPayload": {
			method:  http.MethodPost,
			payload: &payload{Body: "hey there"},
			expCT:   "application/json",
		},
		"withCustomContentType": {
			method:      http.MethodPost,
			payload:     &payload{Body: "hey there"},
			contentType: "application/json;charset=utf-8",
			expCT:       "application/json;charset=utf-8",
		},
		"withHeaders": {
			method: http.MethodGet,
			headers: map[string][]string{
				"Single-Val": {"value"},
				"Multi-Val":  {"value", "value2"},
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var opts []client.RequestOption
			if tc.payload != nil {
				opts = append(opts, client.WithPayload(*tc.payload))
			}
			if len(tc.contentType) > 0 {
				opts = append(opts, client.WithContentType(tc.contentType))
			}
			if tc.headers != nil {
				opts = append(opts, client.WithHeaders(tc.headers))
			}

			req, err := client.Request(t.Context(), client.URL(base, "/3/movie/550"), tc.method, opts...)
			if err != nil {
				t.Fatalf("create request exp nil err; got: %v", err)
			}

			if tc.payload != nil {
				var reqBody payload
				if err := json.NewDecoder(req.Body).Decode(&reqBody); err != nil {
					t.Fatalf("reading req body: %v", err)
				}
				if diff := cmp.Diff(*tc.payload, reqBody); diff != "" {
					t.Errorf("req body mismatch (-want +got):\n%s", diff)
				}
			}

			if got := req.Header.Get("Content-Type"); got != tc.expCT {
				t.Errorf("exp content type %q, got %q", tc.expCT, got)
			}

			for k, v := range tc.headers {
				if diff := cmp.Diff(v, req.Header[k]); diff != "" {
					t.Errorf("header[%s] mismatch (-want +got):\n%s", k, diff)
				}
			}
		})
	}
}

func TestClient_RequestEmptyContentType(t *testing.T) {
	base, _ := url.Parse("https://localhost")

	if _, err := client.Request(t.Context(), base, http.MethodGet, client.WithContentType("")); err == nil {
		t.Fatal("expected error for empty content type")
	}
}

func TestClient_URL(t *testing.T) {
	testCases := map[string]struct {
		base  string
		path  string
		query url.Values
		exp   string
	}{
		"basic": {
			base: "https://localhost:8888",
			path: "/",
			exp:  "https://localhost:8888/",
		},
		"joinsBasePath": {
			base: "https://api.themoviedb.org/3",
			path: "/movie/550",
			exp:  "https://api.themoviedb.org/3/movie/550",
		},
		"dropsBaseQuery": {
			base: "https://api.themoviedb.org/3?stale=1",
			path: "/configuration",
			exp:  "https://api.themoviedb.org/3/configuration",
		},
		"withQuery": {
			base:  "https://api.themoviedb.org/3",
			path:  "/search/movie",
			query: url.Values{"query": {"fight club"}, "page": {"2"}},
			exp:   "https://api.themoviedb.org/3/search/movie?page=2&query=fight+club",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			base, err := url.Parse(tc.base)
			if err != nil {
				t.Fatalf("parsing base: %v", err)
			}

			var opts []client.URLOption
			if tc.query != nil {
				opts = append(opts, client.WithQuery(tc.query))
			}

			u := client.URL(base, tc.path, opts...)

			if u.String() != tc.exp {
				t.Errorf("exp generated url: %q, got: %q", tc.exp, u.String())
			}
			if base.String() != tc.base {
				t.Errorf("base url mutated to %q", base.String())
			}
		})
	}
}

const successRespBody = "success"

func mockServer(t *testing.T) *test {
	t.Helper()

	testClient, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create testClient: %v", err)
	}

	rootHandler := func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(payload{Body: successRespBody})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}

	createdHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"status_code":1}`))
	}

	unauthorizedHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key"}`))
	}

	largeHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Trace", "large")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(bytes.Repeat([]byte("x"), 16<<10))
	}

	echoHandler := func(w http.ResponseWriter, r *http.Request) {
		var decoded payload
		if err := json.NewDecoder(r.Body).Decode(&decoded); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data, err := json.Marshal(decoded)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}

	numberHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":12345678901234567}`))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", rootHandler)
	mux.HandleFunc("/created", createdHandler)
	mux.HandleFunc("/unauthorized", unauthorizedHandler)
	mux.HandleFunc("/large", largeHandler)
	mux.HandleFunc("/echo", echoHandler)
	mux.HandleFunc("/number", numberHandler)
	server := httptest.NewServer(mux)

	testURL, err := url.ParseRequestURI(server.URL)
	if err != nil {
		t.Fatal("parsing test server URL")
	}

	return &test{
		Client:    testClient,
		server:    server,
		serverURL: testURL,
		teardown: func() {
			server.Close()
		},
	}
}

// /////////////////////////////////////////////////////////////////
// Download Tests

func downloadServer(t *testing.T, body []byte, contentLength int) *url.URL {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(contentLength))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}

	return u
}

func TestClient_Download_Basic(t *testing.T) {
	expBody := []byte("hello download world")
	u := downloadServer(t, expBody, len(expBody))

	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	destPath := filepath.Join(t.TempDir(), "nested", "poster.jpg")

	req, err := c.Request(t.Context(), u, http.MethodGet)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if err := c.Download(req, http.StatusOK, destPath); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}

	if !bytes.Equal(got, expBody) {
		t.Errorf("file contents mismatch; got %q, want %q", got, expBody)
	}
}

func TestClient_Download_EmptyDest(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u, _ := url.Parse("http://example.invalid/")
	req, _ := c.Request(t.Context(), u, http.MethodGet)

	if err := c.Download(req, http.StatusOK, ""); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestClient_Download_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := c.Request(t.Context(), u, http.MethodGet)

	destPath := filepath.Join(t.TempDir(), "missing.jpg")

	err := c.Download(req, http.StatusOK, destPath)
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Fatalf("expected ErrUnexpectedStatusCode, got: %v", err)
	}

	if _, err := os.Stat(destPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no file at destination, stat err: %v", err)
	}
}

func TestClient_Download_SkipExisting(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("new contents"))
	}))
	defer ts.Close()

	destPath := filepath.Join(t.TempDir(), "existing.jpg")
	if err := os.WriteFile(destPath, []byte("old contents"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)
	req, _ := c.Request(t.Context(), u, http.MethodGet)

	if err := c.Download(req, http.StatusOK, destPath, download.WithSkipExisting()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got, _ := os.ReadFile(destPath)
	if string(got) != "old contents" {
		t.Errorf("existing file overwritten: %q", got)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("exp no request for an existing file, got %d", n)
	}
}

func TestClient_Download_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("never read"))
	}))
	defer ts.Close()

	c, _ := client.Build()
	u, _ := url.Parse(ts.URL)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	req, err := c.Request(ctx, u, http.MethodGet)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	destPath := filepath.Join(t.TempDir(), "cancelled.bin")
	if err := c.Download(req, http.StatusOK, destPath); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}

	entries, _ := os.ReadDir(filepath.Dir(destPath))
	if len(entries) != 0 {
		t.Errorf("expected empty dir after cancelled download, got %d entries", len(entries))
	}
}
