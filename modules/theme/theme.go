// Package theme handles the display-only theme preference cookie. Every
// view handler reads it; it carries no authority and is therefore a plain
// unsigned cookie.
package theme

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/newsdesk/core"
	"github.com/dmitrymomot/newsdesk/pkg/cookie"
)

const (
	// CookieName is the preference cookie read by every view handler.
	CookieName = "theme"

	// Default is used when the cookie is absent or unknown.
	Default = "light"

	cookieTTL = 365 * 24 * time.Hour
)

var known = map[string]bool{
	"light": true,
	"dark":  true,
}

// Current returns the requested theme, falling back to Default for a
// missing or unrecognized value.
func Current(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil || !known[c.Value] {
		return Default
	}
	return c.Value
}

// Service mounts the theme setter route.
type Service struct {
	cookies *cookie.Manager
}

func NewService(cookies *cookie.Manager) *Service {
	return &Service{cookies: cookies}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/{name}", core.HandlerWithWriter(s.set))
	return r
}

// set stores the chosen theme and sends the browser back where it came
// from. Unknown names are rejected instead of being stored.
func (s *Service) set(w http.ResponseWriter, r *http.Request) core.Response {
	name := chi.URLParam(r, "name")
	if !known[name] {
		return core.JSONError(core.ErrBadRequest)
	}

	if err := s.cookies.Set(w, CookieName, name,
		cookie.WithMaxAge(int(cookieTTL.Seconds())),
		cookie.WithHTTPOnly(false),
	); err != nil {
		return core.JSONError(err)
	}
	return core.RedirectBack("/")
}
