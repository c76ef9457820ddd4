package loans

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned, wrapped in an *ArgumentError, for every input
// the engine refuses to compute with. Inputs are never clamped or defaulted.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError names the offending input.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidArgument, e.Field, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func invalid(field, reason string) error {
	return &ArgumentError{Field: field, Reason: reason}
}
