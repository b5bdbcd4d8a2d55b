package errors

import "errors"

// Meeting errors
var (
	ErrSourceNotConfigured = errors.New("transcript source not configured")
)

// Board errors
var (
	ErrEmptyImport       = errors.New("import contains no rows")
	ErrImportTooLarge    = errors.New("import file is too large")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Integration errors
var (
	ErrStorageNotConfigured = errors.New("object storage not configured")
)
