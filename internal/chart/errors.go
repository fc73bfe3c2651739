package chart

import (
	"errors"
	"fmt"
)

// InputError rejects a render before anything is painted.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chart: invalid input: %s: %v", e.Reason, e.Err)
	}
	return "chart: invalid input: " + e.Reason
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

var (
	// ErrFeatureFetch wraps terrain provider failures recorded in Diagnostics.
	ErrFeatureFetch = errors.New("chart: terrain feature fetch failed")

	// ErrSuperseded is returned to a render whose inputs were replaced by a
	// newer render on the same State before its terrain arrived.
	ErrSuperseded = errors.New("chart: render superseded by newer request")
)
