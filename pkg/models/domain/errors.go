package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrMalformedFilter = errors.New("malformed filter")
	ErrEmptyFieldList  = errors.New("empty field list")
	ErrDuplicateField  = errors.New("duplicate field")
	ErrQueryExecution  = errors.New("query execution failed")
)

// ParameterError reports a request parameter that failed its grammar or
// enumeration check before any query was built.
type ParameterError struct {
	Parameter string
	Value     string
	Err       error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q: %v", e.Parameter, e.Value, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// IsInvalidRequest reports whether err was caused by the caller's input
// rather than by the database.
func IsInvalidRequest(err error) bool {
	var pe *ParameterError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrMalformedFilter) ||
		errors.Is(err, ErrEmptyFieldList) ||
		errors.Is(err, ErrDuplicateField)
}
