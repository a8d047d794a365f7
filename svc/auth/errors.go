package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth.invalid_credentials")
	ErrEmailTaken         = errors.New("auth.email_taken")
	ErrInvalidResetToken  = errors.New("auth.invalid_reset_token")
	ErrWeakPassword       = errors.New("auth.weak_password")
	ErrUnauthenticated    = errors.New("auth.unauthenticated")
	ErrForbidden          = errors.New("auth.forbidden")
	ErrTokenGeneration    = errors.New("auth.token_generation_failed")
	ErrUnknownRole        = errors.New("auth.unknown_role")
)
