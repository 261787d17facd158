package tmdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/adamwoolhether/tmdb/internal/validate"
	"github.com/adamwoolhether/tmdb/token"
)

// AuthenticationService reaches the /authentication endpoints.
type AuthenticationService service

// RequestToken is a short lived token a user approves to create a
// session.
type RequestToken struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at"`
	RequestToken string `json:"request_token"`
}

// Session is a user session.
type Session struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// GuestSession is a guest session, able to rate without an account.
type GuestSession struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
	ExpiresAt      string `json:"expires_at"`
}

type loginRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	RequestToken string `json:"request_token" validate:"required"`
}

type sessionRequest struct {
	RequestToken string `json:"request_token" validate:"required"`
}

type deleteSessionRequest struct {
	SessionID string `json:"session_id"`
}

// RequestToken creates a request token to be approved by the user.
func (s *AuthenticationService) RequestToken(ctx context.Context) (RequestToken, error) {
	return get[RequestToken](ctx, s.client, "/authentication/token/new", nil)
}

// ValidateWithLogin approves a request token with user credentials.
func (s *AuthenticationService) ValidateWithLogin(ctx context.Context, username, password, requestToken string) (RequestToken, error) {
	req := loginRequest{Username: username, Password: password, RequestToken: requestToken}
	if err := validate.Struct(req); err != nil {
		return RequestToken{}, err
	}

	return post[RequestToken](ctx, s.client, "/authentication/token/validate_with_login", nil, req)
}

// CreateSession turns an approved request token into a session. With
// attach set, the session is used for subsequent calls.
func (s *AuthenticationService) CreateSession(ctx context.Context, requestToken string, attach bool) (Session, error) {
	req := sessionRequest{RequestToken: requestToken}
	if err := validate.Struct(req); err != nil {
		return Session{}, err
	}

	sess, err := post[Session](ctx, s.client, "/authentication/session/new", nil, req)
	if err != nil {
		return Session{}, err
	}
	if !sess.Success || sess.SessionID == "" {
		return Session{}, errors.New("session was not created")
	}

	if attach {
		s.client.SetSessionToken(token.SessionToken(sess.SessionID))
	}

	return sess, nil
}

// Login runs the request token, login and session steps in order and
// attaches the resulting session.
func (s *AuthenticationService) Login(ctx context.Context, username, password string) (Session, error) {
	rt, err := s.RequestToken(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("requesting token: %w", err)
	}

	rt, err = s.ValidateWithLogin(ctx, username, password, rt.RequestToken)
	if err != nil {
		return Session{}, fmt.Errorf("validating login: %w", err)
	}

	return s.CreateSession(ctx, rt.RequestToken, true)
}

// CreateGuestSession creates a guest session. With attach set, the
// guest session is used for subsequent calls.
func (s *AuthenticationService) CreateGuestSession(ctx context.Context, attach bool) (GuestSession, error) {
	gs, err := get[GuestSession](ctx, s.client, "/authentication/guest_session/new", nil)
	if err != nil {
		return GuestSession{}, err
	}

	if attach && gs.GuestSessionID != "" {
		s.client.SetGuestSessionToken(token.GuestSessionToken(gs.GuestSessionID))
	}

	return gs, nil
}

// DeleteSession ends the attached user session and detaches it.
func (s *AuthenticationService) DeleteSession(ctx context.Context) (StatusResponse, error) {
	sess := s.client.SessionToken()
	if sess.IsZero() {
		return StatusResponse{}, ErrNoSession
	}

	resp, err := del[StatusResponse](ctx, s.client, "/authentication/session", nil, deleteSessionRequest{SessionID: sess.String()})
	if err != nil {
		return StatusResponse{}, err
	}

	s.client.SetSessionToken("")

	return resp, nil
}
