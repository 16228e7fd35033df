// Package errors provides structured error handling with context propagation and HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeUnauthorized indicates a missing or invalid admin credential (HTTP 403)
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeForbidden indicates access to a poll that is not public (HTTP 403)
	TypeForbidden ErrorType = "forbidden"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeAlreadyVoted indicates a duplicate vote by the same voter (HTTP 400)
	TypeAlreadyVoted ErrorType = "already_voted"
	// TypeInvalidOption indicates an option index out of range (HTTP 400)
	TypeInvalidOption ErrorType = "invalid_option"
	// TypeNotVotable indicates a vote against a draft or closed poll (HTTP 403)
	TypeNotVotable ErrorType = "not_votable"
	// TypeRateLimited indicates too many vote attempts (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeUnavailable indicates the backing store is unreachable (HTTP 503)
	TypeUnavailable ErrorType = "unavailable"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation, TypeAlreadyVoted, TypeInvalidOption:
		return http.StatusBadRequest
	case TypeUnauthorized, TypeForbidden, TypeNotVotable:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, message string) *Error {
	return &Error{
		Type:    t,
		Message: message,
		Context: make(map[string]any),
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return newError(TypeValidation, message)
}

// UnauthorizedError creates a new unauthorized error (HTTP 403).
func UnauthorizedError(message string) *Error {
	return newError(TypeUnauthorized, message)
}

// ForbiddenError creates a new forbidden error (HTTP 403).
func ForbiddenError(message string) *Error {
	return newError(TypeForbidden, message)
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message)
}

// AlreadyVotedError creates a new duplicate-vote error (HTTP 400).
func AlreadyVotedError(message string) *Error {
	return newError(TypeAlreadyVoted, message)
}

// InvalidOptionError creates a new invalid-option error (HTTP 400).
func InvalidOptionError(message string) *Error {
	return newError(TypeInvalidOption, message)
}

// NotVotableError creates a new not-votable error (HTTP 403).
func NotVotableError(message string) *Error {
	return newError(TypeNotVotable, message)
}

// RateLimitedError creates a new rate-limited error (HTTP 429).
func RateLimitedError(message string) *Error {
	return newError(TypeRateLimited, message)
}

// UnavailableError creates a new store-unavailable error (HTTP 503).
func UnavailableError(message string, cause error) *Error {
	err := newError(TypeUnavailable, message)
	err.Cause = cause
	return err
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	err := newError(TypeInternal, message)
	err.Cause = cause
	return err
}

// WithContext adds context fields to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithField is an alias for WithContext (chainable).
func (e *Error) WithField(key string, value any) *Error {
	return e.WithContext(key, value)
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return InternalError("internal server error", err)
}
