// harness/errors.go
// Package: harness
package harness

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is returned when a timing log cannot be opened or read.
var ErrMalformedInput = errors.New("malformed input source")

// OrphanSampleError reports a sample line that arrived before any label.
// The sample is discarded.
type OrphanSampleError struct {
	Line  int
	Value float64
}

func (e *OrphanSampleError) Error() string {
	return fmt.Sprintf("line %d: sample %s has no preceding label", e.Line, FormatFloat(e.Value))
}

// InvalidSampleError reports a numeric line that cannot be a duration:
// negative, NaN, infinite or out of float64 range. The sample is discarded.
type InvalidSampleError struct {
	Line  int
	Label string
	Text  string
}

func (e *InvalidSampleError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("line %d: invalid sample %q", e.Line, e.Text)
	}
	return fmt.Sprintf("line %d: invalid sample %q for %s", e.Line, e.Text, e.Label)
}
