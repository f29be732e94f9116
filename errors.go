package gowindow

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is matched by every constraint violation returned by
// this package:
//
//	if errors.Is(err, gowindow.ErrInvalidRequest) { ... respond 400 ... }
var ErrInvalidRequest = errors.New("invalid pagination request")

// InvalidRequestError describes the violated constraint.
type InvalidRequestError struct {
	// Constraint is a human-readable rule, e.g. "page must be >= 1".
	Constraint string
	// Value is the offending input, if any.
	Value any
}

func (e *InvalidRequestError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", ErrInvalidRequest, e.Constraint)
	}

	return fmt.Sprintf("%s: %s (got %v)", ErrInvalidRequest, e.Constraint, e.Value)
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func invalidRequest(value any, format string, args ...any) error {
	return &InvalidRequestError{
		Constraint: fmt.Sprintf(format, args...),
		Value:      value,
	}
}
