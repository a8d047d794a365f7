// Package binder decodes HTTP request payloads into typed request structs.
// Each binder is a func(*http.Request, any) error so handlers can stack
// them, e.g. Query then Form for endpoints serving both GET and POST.
package binder
