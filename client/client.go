package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/tmdb/client/download"
	"github.com/adamwoolhether/tmdb/client/throttle"
)

// Client wraps the std-lib *http.Client.
// Its transport chain is assembled once in Build and is safe
// for concurrent use.
type Client struct {
	c      *http.Client
	logger func() *slog.Logger
	tracer trace.Tracer
}

// Build assembles a Client from the given options. Without options the
// client uses a fresh *http.Client over http.DefaultTransport, the
// default slog logger and a no-op tracer.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:      &http.Client{},
		logger: slog.Default,
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, client.logger, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	for _, wrap := range slices.Backward(opts.middleware) {
		transport = wrap(transport)
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	client.c.Transport = transport

	return client, nil
}

// Do fires the request and decodes the response into the destination, if any.
// The response status must equal expCode or one of the codes given
// via WithAcceptedStatus.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	settings := doOpts{accepted: []int{expCode}}
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.statusCode != nil {
			*settings.statusCode = resp.StatusCode
		}

		if settings.responseBody == nil {
			return nil
		}

		d := json.NewDecoder(resp.Body)
		if settings.useJSONNum {
			d.UseNumber()
		}

		if err := d.Decode(settings.responseBody); err != nil {
			return fmt.Errorf("decoding body: %w", err)
		}

		return nil
	}

	return c.exec(req, settings.accepted, doFunc)
}

// Download streams the response body to destPath. The file only appears
// at destPath once fully written.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...download.Option) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	skip, err := download.Skip(destPath, opts...)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if skip {
		c.logger().Debug("skipping existing file", "path", destPath)
		return nil
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.ToFile(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger(), opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, []int{expCode}, dlFunc)
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// exec runs the request inside a client span and hands a successful
// response to fn.
func (c *Client) exec(req *http.Request, accepted []int, fn execFn) error {
	ctx, span := c.tracer.Start(req.Context(), "tmdb.http "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := c.c.Do(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return fmt.Errorf("exec http do: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger().Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger().Error("failed to close response body", "error", err)
		}
	}()

	if !slices.Contains(accepted, resp.StatusCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		sentinel := ErrUnexpectedStatusCode
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			sentinel = errors.Join(ErrAuthFailure, ErrUnexpectedStatusCode)
		}

		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))

		return &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Header:     resp.Header.Clone(),
			Err:        sentinel,
		}
	}

	if err := fn(resp); err != nil {
		discardBody = false
		span.RecordError(err)
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// Request instantiates an *http.Request with the provided information.
// Content-Type is only set when a payload is given, defaulting to
// `application/json` unless overridden via WithContentType.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if settings.body != nil {
		var payload bytes.Buffer
		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		body = &payload
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	if settings.body != nil {
		contentType := "application/json"
		if settings.contentType != nil {
			contentType = *settings.contentType
		}
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// URL creates a url.URL for use in Request. The path is appended to
// any path already carried by base.
func URL(base *url.URL, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	endpoint := *base
	endpoint.Path = base.Path + path
	endpoint.RawQuery = ""

	if len(settings.query) > 0 {
		endpoint.RawQuery = settings.query.Encode()
	}

	return &endpoint
}
