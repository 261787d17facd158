package event

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	NameBeforeRequest   = "tmdb.before_request"
	NameResponse        = "tmdb.response"
	NameHTTPClientError = "tmdb.http_client_error"
	NameAPIError        = "tmdb.api_error"
	NameBeforeHydration = "tmdb.before_hydration"
	NameAfterHydration  = "tmdb.after_hydration"
)

// Event is anything a Dispatcher can publish.
type Event interface {
	Name() string
}

// Stopper is implemented by events whose propagation can be halted.
type Stopper interface {
	PropagationStopped() bool
}

// Stoppable is embedded by events that listeners may stop.
type Stoppable struct {
	stopped bool
}

// StopPropagation prevents listeners further down the chain from running.
func (s *Stoppable) StopPropagation() { s.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (s *Stoppable) PropagationStopped() bool { return s.stopped }

// BeforeRequest is published once the request is built and before it is
// sent. Listeners may mutate Request freely; it is not yet shared.
type BeforeRequest struct {
	Stoppable
	ID      uuid.UUID
	Request *http.Request
}

func (*BeforeRequest) Name() string { return NameBeforeRequest }

// Response is published after an accepted response was received.
type Response struct {
	ID         uuid.UUID
	Request    *http.Request
	StatusCode int
	Duration   time.Duration
}

func (*Response) Name() string { return NameResponse }

// HTTPClientError is published when the request never produced a response.
type HTTPClientError struct {
	ID      uuid.UUID
	Request *http.Request
	Err     error
}

func (*HTTPClientError) Name() string { return NameHTTPClientError }

// APIError is published when the remote answered with an error status.
type APIError struct {
	ID         uuid.UUID
	Request    *http.Request
	StatusCode int
	Code       int
	Message    string
}

func (*APIError) Name() string { return NameAPIError }

// BeforeHydration carries the raw payload about to be decoded into Target.
// Listeners may replace Data.
type BeforeHydration struct {
	Stoppable
	ID     uuid.UUID
	Target string
	Data   json.RawMessage
}

func (*BeforeHydration) Name() string { return NameBeforeHydration }

// AfterHydration carries the decoded value.
type AfterHydration struct {
	ID     uuid.UUID
	Target string
	Value  any
}

func (*AfterHydration) Name() string { return NameAfterHydration }
