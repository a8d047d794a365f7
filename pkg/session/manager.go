package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/dmitrymomot/newsdesk/pkg/cookie"
)

// Manager handles session establishment, resolution, and termination.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
}

// New creates a new session manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// Fail fast on misconfiguration rather than issue unsigned cookies.
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	return m
}

// Get resolves the session carried by the request.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		_ = m.store.Delete(ctx, session.Token)
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Authenticate establishes a session for the given user. Call it only after
// credential verification succeeds. Any session already carried by the
// request is discarded and a fresh token is issued.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (*Session, error) {
	if old, err := m.transport.GetToken(r); err == nil && old != "" {
		_ = m.store.Delete(ctx, old)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := NewSession(token, userID, m.config.TTL)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, session.Token, m.config.TTL); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Destroy terminates the session. Terminating an absent or already-invalid
// session is not an error.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

// generateToken produces a 256-bit random session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", ErrTokenGeneration
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
