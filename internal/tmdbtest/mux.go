package tmdbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Handler is a http.Handler that returns an error.
type Handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// Middleware chains Handlers together.
type Middleware func(handler Handler) Handler

// router routes fake API requests. Handlers return errors which the
// error middleware turns into API error payloads.
type router struct {
	mux    *http.ServeMux
	mw     []Middleware
	global []Middleware
	logger *slog.Logger
	tracer trace.Tracer
}

func newRouter(logger *slog.Logger, global ...Middleware) *router {
	return &router{
		mux:    http.NewServeMux(),
		global: global,
		logger: logger,
		tracer: noop.NewTracerProvider().Tracer("tmdbtest"),
	}
}

// ServeHTTP wraps global middleware around the mux.
func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	serve := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		rt.mux.ServeHTTP(w, r.WithContext(ctx))
		return nil
	}

	if err := wrap(rt.global, serve)(r.Context(), w, r); err != nil {
		rt.logger.Error("tmdbtest", "serve http", err)
	}
}

func (rt *router) use(mw ...Middleware) {
	rt.mw = append(rt.mw, mw...)
}

func (rt *router) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrap(mw, handler)
	handler = wrap(rt.mw, handler)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx, span := rt.tracer.Start(r.Context(), "tmdbtest.handler")
		defer span.End()
		span.SetAttributes(attribute.String("path", r.URL.Path))

		v := values{
			TraceID: uuid.NewString(),
			Now:     time.Now().UTC(),
		}

		if err := handler(setValues(ctx, &v), w, r); err != nil {
			rt.logger.Error("tmdbtest", "handle", err)
		}
	}

	rt.mux.HandleFunc(fmt.Sprintf("%s %s", method, path), h)
}

func (rt *router) get(path string, fn Handler, mw ...Middleware) {
	rt.handle(http.MethodGet, path, fn, mw...)
}

func (rt *router) post(path string, fn Handler, mw ...Middleware) {
	rt.handle(http.MethodPost, path, fn, mw...)
}

func (rt *router) delete(path string, fn Handler, mw ...Middleware) {
	rt.handle(http.MethodDelete, path, fn, mw...)
}

// wrap middleware around the handler and execute in order given.
func wrap(mw []Middleware, handler Handler) Handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			handler = mwFn(handler)
		}
	}

	return handler
}

// /////////////////////////////////////////////////////////////////

type ctxKey int

const valuesKey ctxKey = 1

// values are shared across a request for logging.
type values struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

func setValues(ctx context.Context, v *values) context.Context {
	return context.WithValue(ctx, valuesKey, v)
}

func getValues(ctx context.Context) *values {
	v, ok := ctx.Value(valuesKey).(*values)
	if !ok {
		return &values{TraceID: uuid.Nil.String(), Now: time.Now()}
	}
	return v
}

// /////////////////////////////////////////////////////////////////

// apiError is an error payload as sent by the API.
type apiError struct {
	HTTPStatus    int    `json:"-"`
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *apiError) Error() string {
	return e.StatusMessage
}

var (
	errInvalidKey = &apiError{HTTPStatus: http.StatusUnauthorized, StatusCode: 7, StatusMessage: "Invalid API key: You must be granted a valid key."}
	errNotFound   = &apiError{HTTPStatus: http.StatusNotFound, StatusCode: 34, StatusMessage: "The resource you requested could not be found."}
	errNoSession  = &apiError{HTTPStatus: http.StatusUnauthorized, StatusCode: 3, StatusMessage: "Authentication failed: You do not have permissions to access the service."}
	errBadLogin   = &apiError{HTTPStatus: http.StatusUnauthorized, StatusCode: 30, StatusMessage: "Invalid username and/or password: You did not provide a valid login."}
	errBadRequest = &apiError{HTTPStatus: http.StatusBadRequest, StatusCode: 5, StatusMessage: "Invalid parameters: Your request parameters are incorrect."}
)

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	getValues(ctx).StatusCode = statusCode

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)

	return err
}

// errorsMW renders handler errors as API error payloads.
func errorsMW(logger *slog.Logger) Middleware {
	return func(handler Handler) Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			apiErr, ok := err.(*apiError)
			if !ok {
				logger.Error(err.Error(), "trace_id", getValues(ctx).TraceID)
				apiErr = &apiError{HTTPStatus: http.StatusInternalServerError, StatusCode: 11, StatusMessage: "Internal error: Something went wrong, contact TMDb."}
			}

			return respondJSON(ctx, w, apiErr.HTTPStatus, apiErr)
		}
	}
}

// panics recovers from panics in handlers.
func panics() Middleware {
	return func(handler Handler) Handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(debug.Stack()))
				}
			}()

			return handler(ctx, w, r)
		}
	}
}
