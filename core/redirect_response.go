package core

import (
	"net/http"
	"net/url"
)

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect creates a redirect response with status 303 (See Other).
// 303 forces the follow-up request to be a GET, which is what form POST
// handlers want.
func Redirect(targetURL string) Response {
	return redirectResponse{url: targetURL, code: http.StatusSeeOther}
}

// RedirectWithCode creates a redirect response with a custom status code.
func RedirectWithCode(targetURL string, code int) Response {
	return redirectResponse{url: targetURL, code: code}
}

type redirectBackResponse struct {
	fallback string
}

func (r redirectBackResponse) Render(w http.ResponseWriter, req *http.Request) error {
	target := r.fallback
	if referer := req.Referer(); referer != "" {
		// Only same-host referers are trusted as redirect targets.
		if u, err := url.Parse(referer); err == nil && u.Host == req.Host {
			target = referer
		}
	}
	http.Redirect(w, req, target, http.StatusSeeOther)
	return nil
}

// RedirectBack redirects to the Referer when it points at the same host,
// otherwise to the fallback URL.
func RedirectBack(fallback string) Response {
	return redirectBackResponse{fallback: fallback}
}
