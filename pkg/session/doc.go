// Package session bridges credential verification and request
// authorization. A session is established only after a successful password
// check, carries nothing but the user id, and is resolved on every request
// so role changes take effect immediately.
//
// Tokens travel in HMAC-signed cookies; persistence is pluggable through
// the Store interface with in-memory and Redis implementations.
package session
