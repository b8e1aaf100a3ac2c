package field

import (
	"errors"
	"fmt"
)

// Domain errors for snapshot loading.
var (
	// ErrNotFound indicates a snapshot or series file does not exist.
	ErrNotFound = errors.New("field: file not found")

	// ErrParse indicates a malformed numeric row.
	ErrParse = errors.New("field: malformed row")

	// ErrShapeMismatch indicates the row count does not factor into the grid shape.
	ErrShapeMismatch = errors.New("field: row count does not match grid shape")
)

// ParseError reports the file and line of a malformed row.
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("field: %s:%d: %s", e.File, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// ShapeMismatchError carries the expected and actual row counts.
type ShapeMismatchError struct {
	File     string
	NX, NY   int
	Expected int
	Actual   int
	Reason   string
}

func (e *ShapeMismatchError) Error() string {
	msg := fmt.Sprintf("field: shape %dx%d expects %d rows, got %d", e.NX, e.NY, e.Expected, e.Actual)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	return msg
}

func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

func notFound(path string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, path)
}
