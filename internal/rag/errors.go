package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrSafetyCheck is returned when the safety classifier itself fails.
	// Policy is fail-closed: the query is rejected, never silently permitted.
	ErrSafetyCheck = errors.New("safety check unavailable")
	// ErrRetrieval is returned when the vector index is unreachable due to a
	// transient fault. Zero results is not an error.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration is returned when the generation model call fails or
	// times out after the retry budget is exhausted.
	ErrGeneration = errors.New("generation failed")
)

// ValidationError represents a user-correctable input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
