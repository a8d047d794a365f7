package core_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsdesk/core"
)

func TestRedirect(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, core.Redirect("/dashboard").Render(rec, req))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestRedirectWithCode(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/old", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, core.RedirectWithCode("/new", http.StatusMovedPermanently).Render(rec, req))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/new", rec.Header().Get("Location"))
}

func TestRedirectBack(t *testing.T) {
	t.Parallel()

	t.Run("same host referer", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "http://example.com/theme/dark", nil)
		req.Header.Set("Referer", "http://example.com/articles")
		rec := httptest.NewRecorder()

		require.NoError(t, core.RedirectBack("/").Render(rec, req))
		assert.Equal(t, "http://example.com/articles", rec.Header().Get("Location"))
	})

	t.Run("foreign referer falls back", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "http://example.com/theme/dark", nil)
		req.Header.Set("Referer", "http://evil.test/phish")
		rec := httptest.NewRecorder()

		require.NoError(t, core.RedirectBack("/").Render(rec, req))
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("missing referer falls back", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/theme/dark", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, core.RedirectBack("/articles").Render(rec, req))
		assert.Equal(t, "/articles", rec.Header().Get("Location"))
	})
}
