package ingest

import "errors"

// Common ingest errors.
var (
	// ErrUnsupportedFormat is returned when a corpus file has an extension
	// the loader does not read.
	ErrUnsupportedFormat = errors.New("unsupported corpus format")

	// ErrInvalidCorpus is returned when a corpus file cannot be decoded.
	ErrInvalidCorpus = errors.New("invalid corpus file")

	// ErrNoCorpusFiles is returned when no pattern matched a readable file.
	ErrNoCorpusFiles = errors.New("no corpus files matched")
)
