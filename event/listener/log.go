package listener

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/token"
)

// credentialParams are query parameters masked before an error reaches a log.
var credentialParams = []string{"api_key", "session_id", "guest_session_id"}

// LogHTTP logs request start, completion and transport failures.
// Query strings are never logged since they may carry credentials, and
// credentials embedded in transport errors are masked.
func LogHTTP(logger *slog.Logger) event.Listener {
	return event.ListenerFunc(func(ctx context.Context, ev event.Event) error {
		switch e := ev.(type) {
		case *event.BeforeRequest:
			logger.DebugContext(ctx, "request started", "id", e.ID, "method", e.Request.Method, "path", e.Request.URL.Path)
		case *event.Response:
			logger.InfoContext(ctx, "request completed", "id", e.ID, "method", e.Request.Method, "path", e.Request.URL.Path,
				"statusCode", e.StatusCode, "since", e.Duration.String())
		case *event.HTTPClientError:
			logger.ErrorContext(ctx, "request failed", "id", e.ID, "method", e.Request.Method, "path", e.Request.URL.Path, "error", redactErr(e.Err))
		}
		return nil
	})
}

// LogAPIError logs error payloads returned by the remote.
func LogAPIError(logger *slog.Logger) event.Listener {
	return event.ListenerFunc(func(ctx context.Context, ev event.Event) error {
		e, ok := ev.(*event.APIError)
		if !ok {
			return nil
		}

		logger.WarnContext(ctx, "api error", "id", e.ID, "path", e.Request.URL.Path,
			"statusCode", e.StatusCode, "code", e.Code, "message", e.Message)
		return nil
	})
}

// LogHydration logs payload decoding at debug level.
func LogHydration(logger *slog.Logger) event.Listener {
	return event.ListenerFunc(func(ctx context.Context, ev event.Event) error {
		switch e := ev.(type) {
		case *event.BeforeHydration:
			logger.DebugContext(ctx, "hydrating", "id", e.ID, "target", e.Target, "bytes", len(e.Data))
		case *event.AfterHydration:
			logger.DebugContext(ctx, "hydrated", "id", e.ID, "target", e.Target)
		}
		return nil
	})
}

// redactErr masks credential query parameters in the URL of a *url.Error.
// Other errors are returned unchanged.
func redactErr(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}

	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "[unparseable url]", Err: uerr.Err}
	}

	q := u.Query()
	for _, p := range credentialParams {
		if v := q.Get(p); v != "" {
			q.Set(p, token.Redact(v))
		}
	}
	u.RawQuery = q.Encode()

	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}
