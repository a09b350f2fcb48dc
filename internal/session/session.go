// Package session holds the authenticated user and token for the current
// run. It is the single owner of the credential state: the catalog client
// reads the token through the TokenSource interface and never caches it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ramonehamilton/lorcana-companion/internal/events"
	"github.com/ramonehamilton/lorcana-companion/internal/lorcana"
)

// Authenticator is the slice of the catalog client the session needs.
type Authenticator interface {
	Login(ctx context.Context, creds lorcana.Credentials) (*lorcana.LoginResponse, error)
	Register(ctx context.Context, reg lorcana.Registration) (*lorcana.User, error)
	Logout(ctx context.Context) error
}

// LoginResult is the tagged outcome of a login attempt. Err carries the
// classified failure (invalid credentials, network, service down); it is
// never a panic and never leaks transport detail.
type LoginResult struct {
	OK   bool
	User *lorcana.User
	Err  error
}

// Session is the mutable authentication state. Safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *lorcana.User

	auth       Authenticator
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

// New creates an unauthenticated session. dispatcher and logger may be nil.
func New(auth Authenticator, dispatcher *events.Dispatcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{auth: auth, dispatcher: dispatcher, logger: logger}
}

// Token implements lorcana.TokenSource. Empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the authenticated user, or nil.
func (s *Session) User() *lorcana.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a token is held. Expiry is enforced
// server-side; a stale token surfaces as ErrUnauthorized on the next call.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a token and stores it on success.
func (s *Session) Login(ctx context.Context, email, password string) LoginResult {
	resp, err := s.auth.Login(ctx, lorcana.Credentials{Email: email, Password: password})
	if err != nil {
		s.logger.Debug("login failed", "error", err)
		return LoginResult{Err: err}
	}

	s.mu.Lock()
	s.token = resp.Token
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("logged in", "user", resp.User.Name)
	return LoginResult{OK: true, User: &user}
}

// Register creates an account. It does not log in; the caller follows up
// with Login, matching the original app's flow.
func (s *Session) Register(ctx context.Context, name, email, password, confirmation string) (*lorcana.User, error) {
	return s.auth.Register(ctx, lorcana.Registration{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
}

// Logout invalidates the token server-side on a best-effort basis and
// clears local state unconditionally. Local logout always succeeds.
func (s *Session) Logout(ctx context.Context) {
	authenticated := s.IsAuthenticated()

	if authenticated {
		if err := s.auth.Logout(ctx); err != nil && !errors.Is(err, lorcana.ErrUnauthorized) {
			s.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
		}
	}

	s.clear()
	s.logger.Info("logged out")
}

// Invalidate clears the session after an ErrUnauthorized was observed and
// notifies subscribers that re-authentication is required.
func (s *Session) Invalidate() {
	if !s.IsAuthenticated() {
		return
	}
	s.clear()
	s.logger.Warn("session invalidated by server, login required")
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(events.Event{Type: events.TypeSessionExpired})
	}
}

// HandleError invalidates the session when err is an authorization failure
// and reports whether it did so. Components route catalog errors through
// here so a 401 anywhere logs the user out exactly once.
func (s *Session) HandleError(err error) bool {
	if err == nil || !errors.Is(err, lorcana.ErrUnauthorized) {
		return false
	}
	s.Invalidate()
	return true
}

func (s *Session) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}
