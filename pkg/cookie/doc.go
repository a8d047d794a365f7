// Package cookie provides an HTTP cookie manager with HMAC-SHA256 signed
// values and key rotation support. Signed cookies carry the session token;
// plain cookies carry non-sensitive display preferences like the theme.
package cookie
