package apperrors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrConnectionFailed       = errors.New("database connection failed")
	ErrSchemaExtractionFailed = errors.New("schema extraction failed")
	ErrNoActiveConnection     = errors.New("no active database connection")
	ErrNoSchemaAvailable      = errors.New("no schema available")
	ErrTranslationFailed      = errors.New("query translation failed")
	ErrInvalidOperation       = errors.New("invalid operation")
	ErrStoreIO                = errors.New("connection store I/O failure")
)
