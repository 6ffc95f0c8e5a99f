package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY"
	ErrorCodeListingNotFound  ErrorCode = "LISTING_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeRetrievalFailed ErrorCode = "RETRIEVAL_FAILED"
	ErrorCodeSearchFailed    ErrorCode = "SEARCH_FAILED"
	ErrorCodeStoreFailed     ErrorCode = "STORE_FAILED"
)

// ErrorDetail provides additional context for a field-level error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Details   string        `json:"details,omitempty"`
	Fields    []ErrorDetail `json:"fields,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message, details string, fields ...ErrorDetail) *APIError {
	return &APIError{
		Success:   false,
		Error:     message,
		Code:      code,
		Details:   details,
		Fields:    fields,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message, details string, fields ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details, fields...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	fields := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		fields[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", "", fields...)
}

// SendInvalidQueryError sends the response for a missing or blank search query
func SendInvalidQueryError(c *gin.Context) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Search query is required", "")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON in request body", err.Error())
}

// SendListingNotFoundError sends a standardized listing not found error
func SendListingNotFoundError(c *gin.Context, listingID string) {
	SendError(c, http.StatusNotFound, ErrorCodeListingNotFound, "Listing '"+listingID+"' not found", "")
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation, err.Error())
}

// SendStoreError sends a standardized listing store error
func SendStoreError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeStoreFailed,
		"Listing store operation failed ("+operation+")", err.Error())
}

// SendSearchError maps a search pipeline failure to its response.
// No partial results are ever sent alongside an error.
func SendSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, searchErrors.ErrInvalidQuery):
		SendInvalidQueryError(c)
	case errors.Is(err, searchErrors.ErrRetrievalFailed):
		SendError(c, http.StatusInternalServerError, ErrorCodeRetrievalFailed,
			"Failed to process the AI search", err.Error())
	case errors.Is(err, searchErrors.ErrScoringFailed):
		SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed,
			"Failed to process the AI search", err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
			"Failed to process the AI search", err.Error())
	}
}
