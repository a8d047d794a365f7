// Package core provides the HTTP response layer shared by every module:
// the Response interface, JSON and HTML renderers, redirects, and the
// error taxonomy exposed to clients.
package core
