package cardprices

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSnapshot is returned when a snapshot file is missing, unreadable or incomplete.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrColumnResolution is returned when no valid target column can be determined.
	ErrColumnResolution = errors.New("column resolution")

	// ErrDuplicateDate is returned when the matrix already holds a column for the snapshot's day
	// and the resolver policy rejects duplicates.
	ErrDuplicateDate = fmt.Errorf("%w: date already merged", ErrColumnResolution)

	// ErrPersistence is returned on matrix read or write failures.
	ErrPersistence = errors.New("persistence error")
)

// ConversionError reports a stored price cell that cannot be read as a number.
//
// The colorizer treats such a cell as absent.
type ConversionError struct {
	Row    string // item name
	Column string // header label
	Value  string // raw cell content
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert price %q of %q in column %q: %v", e.Value, e.Row, e.Column, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
