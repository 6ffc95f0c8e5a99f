// Package api provides validation utilities for API request handling.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-gig-search/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateListingID validates a listing ID path parameter
func ValidateListingID(listingID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if listingID == "" {
		result.AddError("id", "Listing ID is required")
		return result
	}

	if strings.TrimSpace(listingID) != listingID {
		result.AddError("id", "Listing ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidateListings validates a batch of listings before it is written to the store
func ValidateListings(listings []model.Listing) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(listings) == 0 {
		result.AddError("listings", "No listings provided")
		return result
	}

	seen := make(map[string]int, len(listings))
	for i, listing := range listings {
		field := fmt.Sprintf("listings[%d]", i)

		if strings.TrimSpace(listing.ID) == "" {
			result.AddError(field+"._id", "Listing must have a non-empty '_id'")
		} else if first, dup := seen[listing.ID]; dup {
			result.AddError(field+"._id", fmt.Sprintf("Duplicate '_id' %q (first seen at listings[%d])", listing.ID, first))
		} else {
			seen[listing.ID] = i
		}

		if strings.TrimSpace(listing.Title) == "" {
			result.AddError(field+".title", "Listing must have a non-empty 'title'")
		}

		for j, pkg := range listing.Packages {
			if pkg.Price != nil && *pkg.Price < 0 {
				result.AddError(fmt.Sprintf("%s.packages[%d].price", field, j), "Package price cannot be negative")
			}
		}
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
