package session

import (
	"log"
	"net/http"
	"sync"
	"time"

	"admindash-sync/internal/domain"
	"admindash-sync/internal/transport"

	"github.com/golang-jwt/jwt/v5"
)

// Manager is the single authority over the authenticated session: current
// user, access and refresh tokens, and their persisted copies. The transport
// layer reads the access token through it rather than poking at storage.
type Manager struct {
	mu           sync.RWMutex
	store        Store
	logger       *log.Logger
	user         *domain.ApplicationUser
	token        string
	refreshToken string
	loading      bool
	lastErr      string
}

func NewManager(store Store, logger *log.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Restore loads persisted tokens at startup. The user stays unknown until the
// next profile fetch.
func (m *Manager) Restore() error {
	token, err := m.store.Get(KeyToken)
	if err != nil {
		return err
	}
	refresh, err := m.store.Get(KeyRefreshToken)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.token = token
	m.refreshToken = refresh
	m.mu.Unlock()
	return nil
}

// BeginLogin marks a login attempt in flight. Callers check Loading before
// dispatching to avoid doubled submissions.
func (m *Manager) BeginLogin() {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()
}

// CompleteLogin populates the session and persists both tokens.
func (m *Manager) CompleteLogin(user *domain.ApplicationUser, token, refreshToken string) error {
	m.mu.Lock()
	m.user = user
	m.token = token
	m.refreshToken = refreshToken
	m.loading = false
	m.lastErr = ""
	m.mu.Unlock()

	if err := m.store.Set(KeyToken, token); err != nil {
		return err
	}
	return m.store.Set(KeyRefreshToken, refreshToken)
}

// FailLogin records a failed login attempt.
func (m *Manager) FailLogin(err error) {
	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.lastErr = err.Error()
	}
	m.mu.Unlock()
}

// SetUser stores the profile returned by the server.
func (m *Manager) SetUser(user *domain.ApplicationUser) {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
}

// HandleProfileError applies the session-expiry rule: a 401 from the profile
// endpoint is fatal for the session and clears everything, any other failure
// leaves credentials untouched.
func (m *Manager) HandleProfileError(err error) {
	if !transport.IsStatus(err, http.StatusUnauthorized) {
		return
	}
	m.logger.Printf("profile fetch unauthorized, clearing session")
	if cerr := m.Clear(); cerr != nil {
		m.logger.Printf("clear session: %v", cerr)
	}
}

// Clear wipes the in-memory session and erases both persisted keys.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.refreshToken = ""
	m.loading = false
	m.lastErr = ""
	m.mu.Unlock()

	if err := m.store.Delete(KeyToken); err != nil {
		return err
	}
	return m.store.Delete(KeyRefreshToken)
}

// Token implements transport.TokenSource.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}

// User returns the current user, if one is known.
func (m *Manager) User() (*domain.ApplicationUser, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.user != nil
}

// Authenticated reports whether an access token is held. There is no refresh
// flow; holding a token is the whole criterion.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// TokenExpiry peeks at the access token's exp claim without verifying the
// signature. Display and logging only; the server remains the authority.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
