// FilePath: internal/errors/errors.go
package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeDatabase    ErrorType = "database"
	ErrorTypeAuth        ErrorType = "authentication"
	ErrorTypeAuthorize   ErrorType = "authorization"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypeUnavailable ErrorType = "service_unavailable"
)

// APIError represents a structured API error
type APIError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		err:     err,
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeDatabase,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// NewAuthError creates a new authentication error
func NewAuthError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeAuth,
		Message: msg,
		Code:    http.StatusUnauthorized,
		err:     err,
	}
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: msg,
		Code:    http.StatusForbidden,
		err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: msg,
		Code:    http.StatusNotFound,
		err:     err,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeInternal,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// Unit identity failures surface as 403 on the ingestion endpoints so an edge
// unit with a revoked key cannot probe which half of the pair was wrong.

// NewUnknownUnitError indicates the key/name pair is not in the directory
func NewUnknownUnitError(err error) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: "Invalid key or name",
		Code:    http.StatusForbidden,
		err:     err,
	}
}

// NewNotConnectedError indicates the unit never announced since startup
func NewNotConnectedError(err error) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: "Client not connected",
		Code:    http.StatusForbidden,
		err:     err,
	}
}

// NewInvalidReportError indicates a malformed or negative occupancy report
func NewInvalidReportError(msg string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		err:     err,
	}
}

// NewInvalidCredentialsError indicates a failed login
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Type:    ErrorTypeAuth,
		Message: "Invalid credentials",
		Code:    http.StatusUnauthorized,
	}
}

// NewInvalidTokenError indicates an unknown session token
func NewInvalidTokenError() *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: "Invalid or expired token",
		Code:    http.StatusForbidden,
	}
}

// NewTokenExpiredError indicates a session token past its expiry
func NewTokenExpiredError() *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: "Token has expired",
		Code:    http.StatusForbidden,
	}
}

// NewPermissionDeniedError indicates a missing permission scope
func NewPermissionDeniedError(permission string) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthorize,
		Message: fmt.Sprintf("Permission '%s' required", permission),
		Code:    http.StatusForbidden,
	}
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Type == ErrorTypeValidation
	}
	return false
}

// IsAuthorization checks if an error is an Authorization error
func IsAuthorization(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Type == ErrorTypeAuthorize
	}
	return false
}
