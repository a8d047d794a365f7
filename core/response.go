package core

import (
	"log/slog"
	"net/http"
)

// Response renders itself to the client. Handlers return a Response instead
// of writing to the ResponseWriter directly, so rendering and error policy
// stay in one place.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Handler adapts a Response-returning function to http.HandlerFunc.
// A nil Response or a render failure is downgraded to a plain 500; render
// errors mean headers may already be written, so no body is attempted.
func Handler(fn func(r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if err := resp.Render(w, r); err != nil {
			slog.Default().ErrorContext(r.Context(), "response render failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
	}
}

// HandlerWithWriter is like Handler for handlers that need the
// ResponseWriter up front, typically to set cookies before rendering.
func HandlerWithWriter(fn func(w http.ResponseWriter, r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(w, r)
		if resp == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if err := resp.Render(w, r); err != nil {
			slog.Default().ErrorContext(r.Context(), "response render failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
	}
}
