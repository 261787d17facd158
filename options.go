package tmdb

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/tmdb/client"
	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/event/listener"
	"github.com/adamwoolhether/tmdb/internal/validate"
	"github.com/adamwoolhether/tmdb/token"
)

// Options holds the settings a Client can read back and replace at
// runtime through Client.Options and Client.SetOptions.
type Options struct {
	APIToken          token.APIToken
	BearerToken       token.BearerToken
	SessionToken      token.SessionToken
	GuestSessionToken token.GuestSessionToken

	// Secure selects https. It defaults to true.
	Secure bool
	// Host is the API host, api.themoviedb.org unless overridden.
	Host string `validate:"required,hostname_port|hostname_rfc1123"`
	// BaseURI is derived from Secure and Host.
	BaseURI string

	Cache CacheOptions
	Log   LogOptions
}

// CacheOptions toggles the response cache. An empty Path keeps the
// cache in memory.
type CacheOptions struct {
	Enabled bool
	Path    string
}

// LogOptions toggles request logging. An empty Path logs to stderr.
type LogOptions struct {
	Enabled bool
	Path    string
}

func (o Options) validate() error {
	if o.APIToken.IsZero() && o.BearerToken.IsZero() {
		return ErrNoCredentials
	}

	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("validating options: %w", err)
	}

	return nil
}

// Option configures a Client built with New.
type Option func(*settings) error

type settings struct {
	opts       Options
	userAgent  string
	logger     *slog.Logger
	dispatcher *event.Dispatcher
	cacheTTL   time.Duration
	filters    []event.Listener
	httpOpts   []client.Option
}

// WithAPIToken authenticates with a v3 API key.
func WithAPIToken(key string) Option {
	return func(s *settings) error {
		s.opts.APIToken = token.APIToken(key)
		return nil
	}
}

// WithBearerToken authenticates with a v4 read access token.
func WithBearerToken(t string) Option {
	return func(s *settings) error {
		s.opts.BearerToken = token.BearerToken(t)
		return nil
	}
}

// WithSessionToken attaches a user session.
func WithSessionToken(t string) Option {
	return func(s *settings) error {
		s.opts.SessionToken = token.SessionToken(t)
		return nil
	}
}

// WithGuestSessionToken attaches a guest session.
func WithGuestSessionToken(t string) Option {
	return func(s *settings) error {
		s.opts.GuestSessionToken = token.GuestSessionToken(t)
		return nil
	}
}

// WithSecure chooses between https (true, the default) and http.
func WithSecure(secure bool) Option {
	return func(s *settings) error {
		s.opts.Secure = secure
		return nil
	}
}

// WithHost points the client at another host, e.g. a test server.
// A port may be included.
func WithHost(host string) Option {
	return func(s *settings) error {
		if host == "" {
			return errors.New("host must not be empty")
		}
		s.opts.Host = host
		return nil
	}
}

// WithHTTPClient uses a copy of hc for all calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) error {
		s.httpOpts = append(s.httpOpts, client.WithClient(hc))
		return nil
	}
}

// WithTransport replaces the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) error {
		s.httpOpts = append(s.httpOpts, client.WithTransport(rt))
		return nil
	}
}

// WithTimeout bounds every call.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		s.httpOpts = append(s.httpOpts, client.WithTimeout(d))
		return nil
	}
}

// WithUserAgent replaces the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *settings) error {
		if ua == "" {
			return errors.New("user agent must not be empty")
		}
		s.userAgent = ua
		return nil
	}
}

// WithThrottle limits outgoing calls to rps per second with the given
// burst. Cache hits are not throttled.
func WithThrottle(rps, burst int) Option {
	return func(s *settings) error {
		s.httpOpts = append(s.httpOpts, client.WithThrottle(rps, burst))
		return nil
	}
}

// WithLogger sets the logger used when request logging is off.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithTracer records a span per HTTP call.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) error {
		s.httpOpts = append(s.httpOpts, client.WithTracer(tracer))
		return nil
	}
}

// WithDispatcher shares a dispatcher, and the listeners already on it,
// with the client.
func WithDispatcher(d *event.Dispatcher) Option {
	return func(s *settings) error {
		if d == nil {
			return errors.New("dispatcher must not be nil")
		}
		s.dispatcher = d
		return nil
	}
}

// WithCache enables the response cache below path, or in memory when
// path is empty. ttl applies to responses without max-age; zero keeps
// the default.
func WithCache(path string, ttl time.Duration) Option {
	return func(s *settings) error {
		if ttl < 0 {
			return errors.New("cache ttl must not be negative")
		}
		s.opts.Cache = CacheOptions{Enabled: true, Path: path}
		s.cacheTTL = ttl
		return nil
	}
}

// WithLogging enables request logging to path, or stderr when empty.
func WithLogging(path string) Option {
	return func(s *settings) error {
		s.opts.Log = LogOptions{Enabled: true, Path: path}
		return nil
	}
}

// WithLanguage localises every response, e.g. "nl-NL".
func WithLanguage(lang string) Option {
	return func(s *settings) error {
		f, err := listener.LanguageFilter(lang)
		if err != nil {
			return err
		}
		s.filters = append(s.filters, f)
		return nil
	}
}

// WithRegion filters release data to one country on every call.
func WithRegion(region string) Option {
	return func(s *settings) error {
		f, err := listener.RegionFilter(region)
		if err != nil {
			return err
		}
		s.filters = append(s.filters, f)
		return nil
	}
}

// WithAdult includes or excludes adult titles on every call.
func WithAdult(include bool) Option {
	return func(s *settings) error {
		s.filters = append(s.filters, listener.AdultFilter(include))
		return nil
	}
}
