// Package auth implements credential handling for the application:
// registration with bcrypt password hashing, login verification, the
// time-limited password reset protocol, and the route-protection
// middleware (authentication and exact-match role checks).
//
// The service owns no session state; on successful registration or login
// the HTTP layer establishes the session via pkg/session.
package auth
