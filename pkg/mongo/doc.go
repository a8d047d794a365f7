// Package mongo wraps the official mongo driver with env-driven
// configuration, connection retries, and a readiness healthcheck. The
// connected client is created once at startup and injected into the
// repositories that need it.
package mongo
