package query

import "errors"

// Query errors.
var (
	// ErrQueryExecution is returned when the engine rejects or fails a query.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrQueryTimeout is returned when a query exceeds its time budget.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrUnknownTemplate is returned for a template name not in the catalogue.
	ErrUnknownTemplate = errors.New("unknown query template")

	// ErrMissingParameter is returned when a required template parameter is
	// absent or empty.
	ErrMissingParameter = errors.New("missing template parameter")

	// ErrInvalidParameter is returned when a parameter has the wrong type.
	ErrInvalidParameter = errors.New("invalid template parameter")

	// ErrUnsupportedFormat is returned by ExportResult for an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported result format")
)
