package core

import (
	"net/http"

	"github.com/a-h/templ"
)

type templResponse struct {
	component templ.Component
	status    int
}

func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(t.status)
	return t.component.Render(r.Context(), w)
}

// Templ creates a 200 HTML response from a templ component.
func Templ(component templ.Component) Response {
	return templResponse{component: component, status: http.StatusOK}
}

// TemplStatus creates an HTML response with an explicit status code,
// used for rendering error pages.
func TemplStatus(status int, component templ.Component) Response {
	return templResponse{component: component, status: status}
}
