// Package httpserver provides a lightweight wrapper around net/http that
// adds graceful shutdown, configurable timeouts, lifecycle hooks, and a
// combined liveness/readiness health handler. Construction is done through
// New or NewFromConfig with functional options; Run blocks until the
// context is cancelled or an interrupt/TERM signal arrives.
package httpserver
