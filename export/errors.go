package export

import "errors"

// Common export errors.
var (
	// ErrExportFailure wraps every failure to export one partition in one
	// format.
	ErrExportFailure = errors.New("export failure")

	// ErrUnsupportedFormat is returned for an unknown serialization format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrUnknownProfile is returned for an unknown ontology profile.
	ErrUnknownProfile = errors.New("unknown export profile")
)
