package cookie

import "errors"

var (
	// ErrNoSecret indicates no signing secret was provided.
	ErrNoSecret = errors.New("cookie: no secret provided")

	// ErrSecretTooShort indicates a signing secret below the minimum length.
	ErrSecretTooShort = errors.New("cookie: secret too short")

	// ErrCookieNotFound indicates the named cookie is absent from the request.
	ErrCookieNotFound = errors.New("cookie: not found")

	// ErrInvalidFormat indicates a malformed signed cookie value.
	ErrInvalidFormat = errors.New("cookie: invalid format")

	// ErrInvalidSignature indicates a signature that matches no known secret.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)
