package binder_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsdesk/pkg/binder"
)

type registerForm struct {
	Name     string   `form:"name"`
	Email    string   `form:"email"`
	Age      int      `form:"age"`
	Accept   bool     `form:"accept"`
	Tags     []string `form:"tags"`
	Redirect string   `query:"redirect"`
	Secret   string   `form:"-"`
}

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/register?redirect=/dashboard", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestForm(t *testing.T) {
	t.Parallel()

	t.Run("binds typed fields", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{
			"name":   {"John Doe"},
			"email":  {"john@example.com"},
			"age":    {"30"},
			"accept": {"on"},
			"tags":   {"go", "web"},
		})

		var form registerForm
		require.NoError(t, binder.Form()(req, &form))

		assert.Equal(t, "John Doe", form.Name)
		assert.Equal(t, "john@example.com", form.Email)
		assert.Equal(t, 30, form.Age)
		assert.True(t, form.Accept)
		assert.Equal(t, []string{"go", "web"}, form.Tags)
		assert.Empty(t, form.Secret)
	})

	t.Run("missing fields keep zero values", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"name": {"John"}})

		var form registerForm
		require.NoError(t, binder.Form()(req, &form))
		assert.Equal(t, "John", form.Name)
		assert.Zero(t, form.Age)
	})

	t.Run("invalid integer", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{"age": {"abc"}})

		var form registerForm
		err := binder.Form()(req, &form)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")

		var form registerForm
		assert.ErrorIs(t, binder.Form()(req, &form), binder.ErrUnsupportedMediaType)
	})

	t.Run("non-pointer target", func(t *testing.T) {
		t.Parallel()

		req := formRequest(t, url.Values{})
		assert.ErrorIs(t, binder.Form()(req, registerForm{}), binder.ErrInvalidTarget)
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect=/dashboard", nil)

	var form registerForm
	require.NoError(t, binder.Query()(req, &form))
	assert.Equal(t, "/dashboard", form.Redirect)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type createArticle struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}

	jsonRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		var a createArticle
		require.NoError(t, binder.JSON()(jsonRequest(`{"title":"Hello","body":"World"}`), &a))
		assert.Equal(t, "Hello", a.Title)
		assert.Equal(t, "World", a.Body)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		var a createArticle
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{"title":"x","nope":true}`), &a), binder.ErrFailedToParseJSON)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		t.Parallel()

		var a createArticle
		assert.ErrorIs(t, binder.JSON()(jsonRequest(``), &a), binder.ErrFailedToParseJSON)
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		t.Parallel()

		var a createArticle
		assert.ErrorIs(t, binder.JSON()(jsonRequest(`{"title":"x"}{"title":"y"}`), &a), binder.ErrFailedToParseJSON)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{}`))
		var a createArticle
		assert.ErrorIs(t, binder.JSON()(req, &a), binder.ErrMissingContentType)
	})
}
