package listener

import (
	"context"

	"github.com/adamwoolhether/tmdb/event"
)

// Header sets a request header unless the request already has one.
type Header struct {
	Key   string
	Value string
	// OnlyWithBody restricts the header to requests carrying a payload.
	OnlyWithBody bool
}

// AcceptJSON asks for JSON responses.
func AcceptJSON() Header {
	return Header{Key: "Accept", Value: "application/json"}
}

// ContentTypeJSON marks payloads as JSON.
func ContentTypeJSON() Header {
	return Header{Key: "Content-Type", Value: "application/json;charset=utf-8", OnlyWithBody: true}
}

// UserAgent identifies the caller.
func UserAgent(ua string) Header {
	return Header{Key: "User-Agent", Value: ua}
}

func (h Header) Handle(_ context.Context, ev event.Event) error {
	br, ok := ev.(*event.BeforeRequest)
	if !ok {
		return nil
	}

	if h.OnlyWithBody && br.Request.Body == nil {
		return nil
	}
	if br.Request.Header.Get(h.Key) != "" {
		return nil
	}
	br.Request.Header.Set(h.Key, h.Value)

	return nil
}
