// Package tmdb is a client for The Movie Database v3 API.
//
// A Client builds requests against the API base URI, runs them through an
// event dispatcher for headers and filters, injects credentials, and
// decodes responses into typed models. Resources are reached through per-resource services:
//
//	c, err := tmdb.New(tmdb.WithAPIToken("..."))
//	if err != nil { ... }
//	movie, err := c.Movies.Load(ctx, 550, tmdb.Append("credits"))
//
// Every call publishes events (see package event). Listeners added to
// [Client.Dispatcher] can rewrite requests before they are sent:
//
//	region, _ := listener.RegionFilter("nl")
//	c.Dispatcher().AddListener(event.NameBeforeRequest, region, 0)
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/adamwoolhether/tmdb/cache"
	"github.com/adamwoolhether/tmdb/client"
	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/event/listener"
	"github.com/adamwoolhether/tmdb/token"
)

const (
	// DefaultHost serves the v3 API.
	DefaultHost = "api.themoviedb.org"
	// APIVersion is the path prefix of every endpoint.
	APIVersion = "3"
	// DefaultUserAgent identifies this library.
	DefaultUserAgent = "tmdb-go/1.0"
)

// Listener priorities of the stock listeners. Credentials are not
// listeners in the chain: they are applied after BeforeRequest has been
// dispatched, so stopping propagation or removing listeners keeps them.
const (
	PriorityHeaders = 256
	PriorityFilters = 128
	PriorityLogging = -512
)

// Client talks to the API. It is safe for concurrent use.
type Client struct {
	http       *client.Client
	dispatcher *event.Dispatcher
	cache      *cache.Transport
	logger     *slog.Logger
	activeLog  atomic.Pointer[slog.Logger]

	apiToken     *listener.QueryToken
	sessionToken *listener.QueryToken
	guestToken   *listener.QueryToken
	bearer       *listener.Bearer

	mu          sync.RWMutex
	opts        Options
	baseURL     *url.URL
	logFile     io.Closer
	logRemovers []func()

	common service

	Account        *AccountService
	Authentication *AuthenticationService
	Certifications *CertificationsService
	Changes        *ChangesService
	Collections    *CollectionsService
	Companies      *CompaniesService
	Configuration  *ConfigurationService
	Credits        *CreditsService
	Discover       *DiscoverService
	Find           *FindService
	Genres         *GenresService
	GuestSession   *GuestSessionService
	Images         *ImagesService
	Jobs           *JobsService
	Keywords       *KeywordsService
	Lists          *ListsService
	Movies         *MoviesService
	Networks       *NetworksService
	People         *PeopleService
	Reviews        *ReviewsService
	Search         *SearchService
	Timezones      *TimezonesService
	TV             *TVService
	TVSeasons      *TVSeasonsService
	TVEpisodes     *TVEpisodesService
}

type service struct {
	client *Client
}

// New builds a Client. An API token or a bearer token is required.
func New(optFns ...Option) (*Client, error) {
	s := settings{
		opts: Options{
			Secure: true,
			Host:   DefaultHost,
		},
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range optFns {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	if err := s.opts.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		dispatcher:   s.dispatcher,
		logger:       s.logger,
		apiToken:     listener.APIToken(s.opts.APIToken),
		sessionToken: listener.SessionToken(s.opts.SessionToken),
		guestToken:   listener.GuestSessionToken(s.opts.GuestSessionToken),
		bearer:       listener.NewBearer(s.opts.BearerToken),
	}
	c.activeLog.Store(s.logger)
	if c.dispatcher == nil {
		c.dispatcher = event.NewDispatcher()
	}

	c.cache = cache.NewTransport(nil, cache.WithLogger(c.log), cache.WithDefaultTTL(s.cacheTTL))

	httpOpts := []client.Option{
		client.WithLoggerFunc(c.log),
		client.WithMiddleware(c.cache.Wrap),
	}
	httpOpts = append(httpOpts, s.httpOpts...)

	hc, err := client.Build(httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("building http client: %w", err)
	}
	c.http = hc

	c.registerListeners(s)

	if err := c.SetOptions(s.opts); err != nil {
		return nil, err
	}

	c.common.client = c
	c.Account = (*AccountService)(&c.common)
	c.Authentication = (*AuthenticationService)(&c.common)
	c.Certifications = (*CertificationsService)(&c.common)
	c.Changes = (*ChangesService)(&c.common)
	c.Collections = (*CollectionsService)(&c.common)
	c.Companies = (*CompaniesService)(&c.common)
	c.Configuration = (*ConfigurationService)(&c.common)
	c.Credits = (*CreditsService)(&c.common)
	c.Discover = (*DiscoverService)(&c.common)
	c.Find = (*FindService)(&c.common)
	c.Genres = (*GenresService)(&c.common)
	c.GuestSession = (*GuestSessionService)(&c.common)
	c.Images = &ImagesService{client: c}
	c.Jobs = (*JobsService)(&c.common)
	c.Keywords = (*KeywordsService)(&c.common)
	c.Lists = (*ListsService)(&c.common)
	c.Movies = (*MoviesService)(&c.common)
	c.Networks = (*NetworksService)(&c.common)
	c.People = (*PeopleService)(&c.common)
	c.Reviews = (*ReviewsService)(&c.common)
	c.Search = (*SearchService)(&c.common)
	c.Timezones = (*TimezonesService)(&c.common)
	c.TV = (*TVService)(&c.common)
	c.TVSeasons = (*TVSeasonsService)(&c.common)
	c.TVEpisodes = (*TVEpisodesService)(&c.common)

	return c, nil
}

func (c *Client) registerListeners(s settings) {
	d := c.dispatcher

	d.AddListener(event.NameBeforeRequest, listener.AcceptJSON(), PriorityHeaders)
	d.AddListener(event.NameBeforeRequest, listener.ContentTypeJSON(), PriorityHeaders)
	d.AddListener(event.NameBeforeRequest, listener.UserAgent(s.userAgent), PriorityHeaders)

	for _, f := range s.filters {
		d.AddListener(event.NameBeforeRequest, f, PriorityFilters)
	}
}

// authorize applies the credentials to a request whose BeforeRequest
// chain has run. A credential the caller set explicitly is kept.
func (c *Client) authorize(ctx context.Context, ev *event.BeforeRequest) error {
	for _, l := range []event.Listener{c.apiToken, c.bearer, c.sessionToken, c.guestToken} {
		if err := l.Handle(ctx, ev); err != nil {
			return fmt.Errorf("applying credentials: %w", err)
		}
	}
	return nil
}

// Dispatcher returns the event dispatcher every call goes through.
func (c *Client) Dispatcher() *event.Dispatcher {
	return c.dispatcher
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *client.Client {
	return c.http
}

// Options returns a copy of the current options, BaseURI included.
func (c *Client) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.opts
}

// SetOptions replaces the options. BaseURI is derived from Secure and
// Host and ignored on input. Cache and Log settings are applied as with
// SetCaching and SetLogging.
func (c *Client) SetOptions(o Options) error {
	if err := o.validate(); err != nil {
		return err
	}

	scheme := "https"
	if !o.Secure {
		scheme = "http"
	}
	base := &url.URL{Scheme: scheme, Host: o.Host, Path: "/" + APIVersion}
	o.BaseURI = base.String()

	c.mu.Lock()
	prev := c.opts
	c.opts = o
	c.baseURL = base
	c.mu.Unlock()

	c.apiToken.Set(o.APIToken.String())
	c.bearer.Set(o.BearerToken)
	c.sessionToken.Set(o.SessionToken.String())
	c.guestToken.Set(o.GuestSessionToken.String())

	if o.Cache != prev.Cache {
		if err := c.SetCaching(o.Cache.Enabled, o.Cache.Path); err != nil {
			return err
		}
	}
	if o.Log != prev.Log {
		if err := c.SetLogging(o.Log.Enabled, o.Log.Path); err != nil {
			return err
		}
	}

	return nil
}

// BaseURI returns the API root, e.g. https://api.themoviedb.org/3.
func (c *Client) BaseURI() string {
	return c.Options().BaseURI
}

// SessionToken returns the user session token, if any.
func (c *Client) SessionToken() token.SessionToken {
	return c.Options().SessionToken
}

// SetSessionToken attaches a user session to subsequent calls.
func (c *Client) SetSessionToken(t token.SessionToken) {
	c.mu.Lock()
	c.opts.SessionToken = t
	c.mu.Unlock()

	c.sessionToken.Set(t.String())
}

// GuestSessionToken returns the guest session token, if any.
func (c *Client) GuestSessionToken() token.GuestSessionToken {
	return c.Options().GuestSessionToken
}

// SetGuestSessionToken attaches a guest session to subsequent calls.
func (c *Client) SetGuestSessionToken(t token.GuestSessionToken) {
	c.mu.Lock()
	c.opts.GuestSessionToken = t
	c.mu.Unlock()

	c.guestToken.Set(t.String())
}

// SetCaching enables or disables the response cache. With a path the
// cache lives on disk below it, otherwise in memory.
func (c *Client) SetCaching(enabled bool, path string) error {
	var store cache.Store
	if enabled {
		store = cache.NewMemory()
		if path != "" {
			dir, err := cache.NewDir(path)
			if err != nil {
				return fmt.Errorf("enabling cache: %w", err)
			}
			store = dir
		}
	}

	c.cache.SetStore(store)

	c.mu.Lock()
	c.opts.Cache = CacheOptions{Enabled: enabled, Path: path}
	c.mu.Unlock()

	return nil
}

// CacheEnabled reports whether responses are cached.
func (c *Client) CacheEnabled() bool {
	return c.Options().Cache.Enabled
}

// CachePath returns the cache directory, empty for an in-memory cache.
func (c *Client) CachePath() string {
	return c.Options().Cache.Path
}

// SetLogging enables or disables request logging. With a path, JSON log
// lines are appended to that file; otherwise text goes to stderr.
// Disabling restores the logger given at construction.
func (c *Client) SetLogging(enabled bool, path string) error {
	var (
		logger = c.logger
		file   *os.File
	)
	if enabled {
		var w io.Writer = os.Stderr
		if path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			file, w = f, f
			logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		} else {
			logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	closeErr := c.stopLogging()

	if enabled {
		c.logRemovers = []func(){
			c.dispatcher.AddListener(event.NameBeforeRequest, listener.LogHTTP(logger), PriorityLogging),
			c.dispatcher.AddListener(event.NameResponse, listener.LogHTTP(logger), PriorityLogging),
			c.dispatcher.AddListener(event.NameHTTPClientError, listener.LogHTTP(logger), PriorityLogging),
			c.dispatcher.AddListener(event.NameAPIError, listener.LogAPIError(logger), PriorityLogging),
			c.dispatcher.AddListener(event.NameBeforeHydration, listener.LogHydration(logger), PriorityLogging),
			c.dispatcher.AddListener(event.NameAfterHydration, listener.LogHydration(logger), PriorityLogging),
		}
	}
	if file != nil {
		c.logFile = file
	}

	c.activeLog.Store(logger)
	c.opts.Log = LogOptions{Enabled: enabled, Path: path}

	if closeErr != nil {
		return fmt.Errorf("closing previous log file: %w", closeErr)
	}

	return nil
}

// LogEnabled reports whether request logging is on.
func (c *Client) LogEnabled() bool {
	return c.Options().Log.Enabled
}

// LogPath returns the log file, empty when logging to stderr.
func (c *Client) LogPath() string {
	return c.Options().Log.Path
}

// Close turns request logging off and releases the log file, if one is
// open. The client stays usable.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopLogging()
}

// stopLogging unregisters the logging listeners, closes the log file and
// restores the construction logger. c.mu must be held.
func (c *Client) stopLogging() error {
	for _, remove := range c.logRemovers {
		remove()
	}
	c.logRemovers = nil

	var err error
	if c.logFile != nil {
		err = c.logFile.Close()
		c.logFile = nil
	}

	c.activeLog.Store(c.logger)
	c.opts.Log = LogOptions{}

	return err
}

func (c *Client) log() *slog.Logger {
	return c.activeLog.Load()
}

// /////////////////////////////////////////////////////////////////

type call struct {
	method   string
	path     string
	query    url.Values
	payload  any
	accepted []int
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, call{method: http.MethodGet, path: path, query: query}, &out)
	return out, err
}

func post[T any](ctx context.Context, c *Client, path string, query url.Values, payload any) (T, error) {
	var out T
	err := c.do(ctx, call{method: http.MethodPost, path: path, query: query, payload: payload, accepted: []int{http.StatusCreated}}, &out)
	return out, err
}

func del[T any](ctx context.Context, c *Client, path string, query url.Values, payload any) (T, error) {
	var out T
	err := c.do(ctx, call{method: http.MethodDelete, path: path, query: query, payload: payload}, &out)
	return out, err
}

// do runs one API call through the event pipeline and decodes the
// response into dest.
func (c *Client) do(ctx context.Context, cl call, dest any) error {
	c.mu.RLock()
	base := c.baseURL
	c.mu.RUnlock()

	u := client.URL(base, cl.path, client.WithQuery(cl.query))

	var reqOpts []client.RequestOption
	if cl.payload != nil {
		reqOpts = append(reqOpts, client.WithPayload(cl.payload))
	}

	req, err := c.http.Request(ctx, u, cl.method, reqOpts...)
	if err != nil {
		return err
	}

	id := uuid.New()
	before := &event.BeforeRequest{ID: id, Request: req}
	if err := c.dispatcher.Dispatch(ctx, before); err != nil {
		return err
	}
	if err := c.authorize(ctx, before); err != nil {
		return err
	}

	var (
		raw    json.RawMessage
		status int
	)
	start := time.Now()
	err = c.http.Do(req, http.StatusOK,
		client.WithDestination(&raw),
		client.WithStatusCode(&status),
		client.WithAcceptedStatus(cl.accepted...),
	)
	if err != nil {
		return c.fail(ctx, id, req, err)
	}

	resp := &event.Response{ID: id, Request: req, StatusCode: status, Duration: time.Since(start)}
	if err := c.dispatcher.Dispatch(ctx, resp); err != nil {
		return err
	}

	if dest == nil {
		return nil
	}

	return c.hydrate(ctx, id, raw, dest)
}

func (c *Client) fail(ctx context.Context, id uuid.UUID, req *http.Request, err error) error {
	var statusErr *client.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		apiErr := newAPIError(statusErr)
		ev := &event.APIError{
			ID:         id,
			Request:    req,
			StatusCode: apiErr.HTTPStatus,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
		if dErr := c.dispatcher.Dispatch(ctx, ev); dErr != nil {
			return errors.Join(apiErr, dErr)
		}
		return apiErr
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		ev := &event.HTTPClientError{ID: id, Request: req, Err: err}
		if dErr := c.dispatcher.Dispatch(ctx, ev); dErr != nil {
			return errors.Join(err, dErr)
		}
	}

	return err
}

func (c *Client) hydrate(ctx context.Context, id uuid.UUID, raw json.RawMessage, dest any) error {
	target := fmt.Sprintf("%T", dest)

	before := &event.BeforeHydration{ID: id, Target: target, Data: raw}
	if err := c.dispatcher.Dispatch(ctx, before); err != nil {
		return err
	}

	if err := json.Unmarshal(before.Data, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", target, err)
	}

	return c.dispatcher.Dispatch(ctx, &event.AfterHydration{ID: id, Target: target, Value: dest})
}

func load[T any](ctx context.Context, c *Client, path string, opts []QueryOption) (T, error) {
	q, err := buildQuery(opts)
	if err != nil {
		var zero T
		return zero, err
	}
	return get[T](ctx, c, path, q)
}

func loadByID[T any](ctx context.Context, c *Client, format string, id int, opts []QueryOption) (T, error) {
	if id < 0 {
		var zero T
		return zero, fmt.Errorf("invalid id %d", id)
	}
	return load[T](ctx, c, fmt.Sprintf(format, id), opts)
}

func (c *Client) requireSession() error {
	if c.SessionToken().IsZero() {
		return ErrNoSession
	}
	return nil
}

func (c *Client) requireGuestSession() error {
	if c.GuestSessionToken().IsZero() {
		return ErrNoGuestSession
	}
	return nil
}

func (c *Client) requireAnySession() error {
	if c.SessionToken().IsZero() && c.GuestSessionToken().IsZero() {
		return ErrNoSession
	}
	return nil
}
