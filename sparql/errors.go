package sparql

import (
	"errors"
	"fmt"
)

// ErrEvaluation is returned when a parsed query cannot be evaluated.
var ErrEvaluation = errors.New("sparql evaluation failed")

// SyntaxError reports a query that could not be parsed.
type SyntaxError struct {
	// Offset is the byte offset into the query text.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sparql syntax error at offset %d: %s", e.Offset, e.Msg)
}

func syntaxErrorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// errType is raised by expressions applied to terms of the wrong kind. A
// FILTER treats it as false.
var errType = errors.New("type error")

// errUnbound is raised when an expression reads an unbound variable.
var errUnbound = errors.New("unbound variable")
