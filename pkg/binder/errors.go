package binder

import "errors"

var (
	ErrMissingContentType   = errors.New("binder.missing_content_type")
	ErrUnsupportedMediaType = errors.New("binder.unsupported_media_type")
	ErrInvalidForm          = errors.New("binder.invalid_form")
	ErrFailedToParseJSON    = errors.New("binder.failed_to_parse_json")
	ErrInvalidTarget        = errors.New("binder.invalid_target")
)
