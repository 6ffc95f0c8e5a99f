package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidQuery is returned when the search query is missing or blank
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrievalFailed is returned when the listing store cannot produce candidates
	ErrRetrievalFailed = errors.New("candidate retrieval failed")

	// ErrScoringFailed is returned when tokenizing or scoring fails unexpectedly
	ErrScoringFailed = errors.New("scoring failed")

	// ErrListingNotFound is returned when a listing is not found
	ErrListingNotFound = errors.New("listing not found")
)

// InvalidQueryError represents a missing or blank search query
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid search query: %s", e.Reason)
	}
	return "invalid search query"
}

func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery || target == ErrInvalidInput
}

// NewInvalidQueryError creates a new InvalidQueryError
func NewInvalidQueryError(reason string) *InvalidQueryError {
	return &InvalidQueryError{Reason: reason}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RetrievalError wraps a listing store failure
type RetrievalError struct {
	Store string
	Err   error
}

func (e *RetrievalError) Error() string {
	if e.Store != "" {
		return fmt.Sprintf("candidate retrieval from %s store failed: %v", e.Store, e.Err)
	}
	return fmt.Sprintf("candidate retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrievalFailed
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// NewRetrievalError creates a new RetrievalError
func NewRetrievalError(store string, err error) *RetrievalError {
	return &RetrievalError{Store: store, Err: err}
}

// ScoringError represents an unexpected failure while ranking candidates
type ScoringError struct {
	Cause interface{}
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed: %v", e.Cause)
}

func (e *ScoringError) Is(target error) bool {
	return target == ErrScoringFailed
}

func (e *ScoringError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// NewScoringError creates a new ScoringError from a recovered panic value or error
func NewScoringError(cause interface{}) *ScoringError {
	return &ScoringError{Cause: cause}
}

// ListingNotFoundError represents a listing not found error with context
type ListingNotFoundError struct {
	ListingID string
}

func (e *ListingNotFoundError) Error() string {
	return fmt.Sprintf("listing with ID '%s' not found", e.ListingID)
}

func (e *ListingNotFoundError) Is(target error) bool {
	return target == ErrListingNotFound
}

// NewListingNotFoundError creates a new ListingNotFoundError
func NewListingNotFoundError(listingID string) *ListingNotFoundError {
	return &ListingNotFoundError{ListingID: listingID}
}
