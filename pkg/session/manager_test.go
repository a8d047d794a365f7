package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsdesk/pkg/cookie"
	"github.com/dmitrymomot/newsdesk/pkg/session"
)

func setupManager(t *testing.T) *session.Manager {
	t.Helper()

	cookieMgr, err := cookie.New([]string{"test-secret-key-that-is-long-enough"})
	require.NoError(t, err)

	return session.New(
		session.WithCookieManager(cookieMgr),
		session.WithConfig(session.Config{
			CookieName:      "test-sid",
			TTL:             time.Hour,
			CleanupInterval: 0, // no background cleanup in tests
		}),
	)
}

func TestManager_Authenticate(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("establishes session with cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/auth/login", nil)

		sess, err := manager.Authenticate(ctx, w, r, "user-1")
		require.NoError(t, err)
		assert.True(t, sess.IsAuthenticated())
		assert.Equal(t, "user-1", sess.UserID)
		assert.NotEmpty(t, sess.Token)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "test-sid", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("rotates token for a request carrying a session", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		r1 := httptest.NewRequest("POST", "/auth/login", nil)
		sess1, err := manager.Authenticate(ctx, w1, r1, "user-1")
		require.NoError(t, err)

		r2 := httptest.NewRequest("POST", "/auth/login", nil)
		for _, c := range w1.Result().Cookies() {
			r2.AddCookie(c)
		}
		w2 := httptest.NewRecorder()

		sess2, err := manager.Authenticate(ctx, w2, r2, "user-2")
		require.NoError(t, err)
		assert.NotEqual(t, sess1.Token, sess2.Token)

		// Old session is gone.
		_, err = manager.Get(ctx, r2)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManager_Get(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("resolves established session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/auth/login", nil)
		sess, err := manager.Authenticate(ctx, w, r, "user-1")
		require.NoError(t, err)

		r2 := httptest.NewRequest("GET", "/", nil)
		for _, c := range w.Result().Cookies() {
			r2.AddCookie(c)
		}

		resolved, err := manager.Get(ctx, r2)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, resolved.ID)
		assert.Equal(t, "user-1", resolved.UserID)
	})

	t.Run("returns error for no session", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		_, err := manager.Get(ctx, r)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("rejects forged cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "test-sid", Value: "forged-token"})

		_, err := manager.Get(ctx, r)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManager_Destroy(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("terminates session and clears cookie", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		r1 := httptest.NewRequest("POST", "/auth/login", nil)
		_, err := manager.Authenticate(ctx, w1, r1, "user-1")
		require.NoError(t, err)

		r2 := httptest.NewRequest("POST", "/auth/logout", nil)
		for _, c := range w1.Result().Cookies() {
			r2.AddCookie(c)
		}
		w2 := httptest.NewRecorder()

		require.NoError(t, manager.Destroy(ctx, w2, r2))

		cookies := w2.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)

		_, err = manager.Get(ctx, r2)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("idempotent without session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/auth/logout", nil)

		assert.NoError(t, manager.Destroy(ctx, w, r))
		assert.NoError(t, manager.Destroy(ctx, w, r))
	})
}

func TestManager_ExpiredSession(t *testing.T) {
	cookieMgr, err := cookie.New([]string{"test-secret-key-that-is-long-enough"})
	require.NoError(t, err)

	manager := session.New(
		session.WithCookieManager(cookieMgr),
		session.WithConfig(session.Config{
			CookieName: "test-sid",
			TTL:        -time.Minute, // already expired on creation
		}),
	)
	ctx := context.Background()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/auth/login", nil)
	_, err = manager.Authenticate(ctx, w, r, "user-1")
	require.NoError(t, err)

	r2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}

	_, err = manager.Get(ctx, r2)
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}
