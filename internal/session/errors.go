package session

import (
	"errors"
	"fmt"
)

// Common error types for the session engines.
var (
	// ErrSessionNotFound indicates that no live session exists for the given
	// id. It is also returned when an id resolves to a session of the other
	// variant (e.g. a quiz id submitted to a flashcard operation) and when a
	// further answer is submitted to an already completed session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyWordSet indicates that a session cannot be started because the
	// word set contains no words.
	ErrEmptyWordSet = errors.New("word set has no words")
)

// ServiceError wraps errors from the session engines with additional context.
// This allows consumers to differentiate between different types of engine
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_quiz", "answer_flashcard")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
