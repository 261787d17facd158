package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/adamwoolhether/tmdb/client"
)

var (
	// ErrNoCredentials is returned by New when neither an API token nor
	// a bearer token is configured.
	ErrNoCredentials = errors.New("api token or bearer token required")
	// ErrNoSession is returned by calls that act on a user account.
	ErrNoSession = errors.New("session token required")
	// ErrNoGuestSession is returned by calls that act on a guest session.
	ErrNoGuestSession = errors.New("guest session token required")
)

// APIError is an error payload returned by the API, e.g.
//
//	{"success":false,"status_code":34,"status_message":"The resource you requested could not be found."}
//
// It unwraps to the *client.UnexpectedStatusError it was decoded from.
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string

	err *client.UnexpectedStatusError
}

func newAPIError(statusErr *client.UnexpectedStatusError) *APIError {
	var payload struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
	}
	_ = json.Unmarshal([]byte(statusErr.Body), &payload)

	msg := payload.StatusMessage
	if msg == "" {
		msg = http.StatusText(statusErr.StatusCode)
	}

	return &APIError{
		HTTPStatus: statusErr.StatusCode,
		Code:       payload.StatusCode,
		Message:    msg,
		err:        statusErr,
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: %d (code %d): %s", e.HTTPStatus, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// IsNotFound reports whether err is an API error for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound
}
