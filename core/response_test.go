package core_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsdesk/core"
)

func TestHandler(t *testing.T) {
	t.Parallel()

	t.Run("renders the returned response", func(t *testing.T) {
		t.Parallel()

		h := core.Handler(func(r *http.Request) core.Response {
			return core.JSONMessage("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ok")
	})

	t.Run("nil response becomes 500", func(t *testing.T) {
		t.Parallel()

		h := core.Handler(func(r *http.Request) core.Response {
			return nil
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestTempl(t *testing.T) {
	t.Parallel()

	page := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Stats</h1>")
		return err
	})

	t.Run("renders html", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, core.Templ(page).Render(rec, req))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<h1>Stats</h1>", rec.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, core.TemplStatus(http.StatusNotFound, page).Render(rec, req))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
