// Package auth owns the login session: an explicit state machine moving
// between anonymous, authenticating and authenticated, backed by a remote
// login with an offline credential table as fallback.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ura-xlaw/internal/api"
	"ura-xlaw/internal/domain"
	"ura-xlaw/internal/mock"
	"ura-xlaw/internal/storage"
)

// DefaultFailureMessage is shown when a failed login carries no explanation
const DefaultFailureMessage = "Đăng nhập thất bại"

// ErrNotAuthenticated is returned by operations that need a signed-in user
var ErrNotAuthenticated = errors.New("not authenticated")

// Remote is the backend auth API
type Remote interface {
	Login(ctx context.Context, staffID, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

// Fallback authenticates when the backend cannot
type Fallback interface {
	Login(ctx context.Context, staffID, password string) (*mock.LoginResult, error)
}

// Manager holds the session state and performs the transitions
type Manager struct {
	mu        sync.RWMutex
	state     State
	remote    Remote
	fallback  Fallback
	store     storage.Store
	logger    *slog.Logger
	listeners []func(State)
}

// NewManager creates an anonymous session. fallback may be nil to disable
// offline login.
func NewManager(remote Remote, fallback Fallback, store storage.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		remote:   remote,
		fallback: fallback,
		store:    store,
		logger:   logger.With("component", "auth"),
	}
}

// OnChange registers fn to be called with the new state after each transition
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// State returns the current snapshot
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the bearer token, empty when anonymous
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

// Restore signs in from the persisted token and profile, if any
func (m *Manager) Restore() error {
	rec, ok, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load saved session: %w", err)
	}
	if !ok {
		return nil
	}
	m.apply(func(s State) State { return loginSuccess(s, rec.Token, rec.User) })
	m.logger.Info("session restored", slog.String("staff_id", rec.User.StaffID))
	return nil
}

// Login tries the backend first and the offline table second. On failure the
// session stays anonymous and the returned error's message is also in
// State().Err.
func (m *Manager) Login(ctx context.Context, staffID, password string) error {
	m.apply(loginStart)

	resp, apiErr := m.remote.Login(ctx, staffID, password)
	if apiErr == nil {
		return m.complete(resp.Token, resp.User, "remote")
	}

	if m.fallback == nil {
		msg := UserMessage(apiErr)
		m.apply(func(s State) State { return loginFailure(s, msg) })
		return &LoginError{Message: msg, Err: apiErr}
	}

	m.logger.Warn("real API not available, trying mock authentication", slog.Any("error", apiErr))

	res, mockErr := m.fallback.Login(ctx, staffID, password)
	if mockErr != nil {
		msg := UserMessage(mockErr)
		m.apply(func(s State) State { return loginFailure(s, msg) })
		return &LoginError{Message: msg, Err: mockErr}
	}
	return m.complete(res.Token, res.User, "mock")
}

func (m *Manager) complete(token string, user domain.User, source string) error {
	if err := m.store.Save(storage.Record{Token: token, User: user}); err != nil {
		// the session still works for this run
		m.logger.Error("failed to persist session", slog.Any("error", err))
	}
	m.apply(func(s State) State { return loginSuccess(s, token, user) })
	m.logger.Info("login succeeded", slog.String("staff_id", user.StaffID), slog.String("source", source))
	return nil
}

// Logout invalidates the token remotely when possible and always clears the
// local session.
func (m *Manager) Logout(ctx context.Context) {
	if m.Token() != "" {
		if err := m.remote.Logout(ctx); err != nil {
			m.logger.Warn("logout error", slog.Any("error", err))
		}
	}
	m.clear()
}

// Expire ends the session after the backend rejected its token. No remote
// call is made.
func (m *Manager) Expire() {
	if !m.State().IsAuthenticated() {
		return
	}
	m.logger.Warn("session expired, signing out")
	m.clear()
}

func (m *Manager) clear() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear saved session", slog.Any("error", err))
	}
	m.apply(loggedOut)
}

// Refresh reloads the profile from the backend
func (m *Manager) Refresh(ctx context.Context) (*domain.User, error) {
	st := m.State()
	if !st.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	user, err := m.remote.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh profile: %w", err)
	}

	if err := m.store.Save(storage.Record{Token: st.Token, User: *user}); err != nil {
		m.logger.Error("failed to persist session", slog.Any("error", err))
	}
	m.apply(func(s State) State { return setUser(s, *user) })
	return user, nil
}

func (m *Manager) apply(transition func(State) State) {
	m.mu.Lock()
	m.state = transition(m.state)
	next := m.state
	listeners := append([]func(State){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
