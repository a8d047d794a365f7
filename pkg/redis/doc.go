// Package redis provides the Redis client factory used by the session
// store, with env-driven configuration, connection retries, and a
// readiness healthcheck.
package redis
