package handlers

import (
	"strings"

	"gst-invoice-api/internal/repositories"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// isValidationError checks if an error is a validation error
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	if repositories.IsValidation(err) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "validation") ||
		strings.Contains(errStr, "invalid") ||
		strings.Contains(errStr, "required") ||
		strings.Contains(errStr, "must be")
}

// isNotFoundError checks if an error indicates a resource was not found
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if repositories.IsNotFound(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// isConflictError checks if an error indicates a business conflict,
// such as insufficient stock or an exhausted number sequence.
func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	if repositories.IsDuplicate(err) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "insufficient stock") ||
		strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "conflict")
}
