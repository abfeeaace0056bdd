package tasks

import (
	"errors"

	"github.com/teemow/sheettodo/internal/instrumentation"
)

var (
	// ErrNotFound is returned when no row carries the requested identifier.
	ErrNotFound = errors.New("task not found")

	// ErrValidation is returned when required input fields are blank.
	ErrValidation = errors.New("invalid task")
)

// MutationStatus maps the result of a repository call to a metrics status label.
func MutationStatus(err error) string {
	switch {
	case err == nil:
		return instrumentation.StatusSuccess
	case errors.Is(err, ErrNotFound):
		return instrumentation.StatusNotFound
	case errors.Is(err, ErrValidation):
		return instrumentation.StatusInvalid
	default:
		return instrumentation.StatusError
	}
}
