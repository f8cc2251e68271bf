package storage

import "errors"

// Common storage errors.
var (
	// ErrInvalidFeedbackKind is returned when a feedback type is not
	// positive, negative or correction.
	ErrInvalidFeedbackKind = errors.New("invalid feedback kind")

	// ErrInvalidFeedback is returned when a feedback trace fails validation
	// for any reason other than its kind.
	ErrInvalidFeedback = errors.New("invalid feedback trace")

	// ErrDuplicateFeedback is returned when a feedback ID is reused.
	ErrDuplicateFeedback = errors.New("duplicate feedback id")

	// ErrInvalidAnnotator is returned when an annotator profile fails validation.
	ErrInvalidAnnotator = errors.New("invalid annotator profile")

	// ErrAnnotatorConflict is returned when two annotator IDs map to the same
	// registry node.
	ErrAnnotatorConflict = errors.New("annotator id conflict")

	// ErrInvalidAnnotation is returned when a language annotation fails validation.
	ErrInvalidAnnotation = errors.New("invalid language annotation")

	// ErrUnknownPartition is returned when a partition name is not recognised.
	ErrUnknownPartition = errors.New("unknown partition")
)
