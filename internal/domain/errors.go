package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotFound       = errors.New("record not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrInternalError  = errors.New("internal server error")
)

// IsNotFound checks if an error is a not-found type error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) || errors.Is(err, ErrNotFound)
}

// StoreError wraps an underlying persistence failure. The core never retries;
// callers decide whether to surface it or try again.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err with the failing store operation
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError checks if an error originated in the persistence layer
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
