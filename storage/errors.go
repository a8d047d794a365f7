package storage

import "errors"

var (
	ErrNotFound       = errors.New("storage.not_found")
	ErrDuplicateEmail = errors.New("storage.duplicate_email")
	ErrInvalidID      = errors.New("storage.invalid_id")
	ErrEmptyFilter    = errors.New("storage.empty_filter")
)
