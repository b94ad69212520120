// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All errors returned to API clients go through AppError for consistent responses.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shortid/pkg/shortid"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal   = "INTERNAL_ERROR"
	CodeSystemTime = "SYSTEM_TIME"

	// Request lifetime errors (499, 504)
	CodeCanceled = "REQUEST_CANCELED"
	CodeTimeout  = "TIMEOUT"

	// Capacity errors (503), retry policy differs per code
	CodeTimeOverflow     = "TIME_OVERFLOW"
	CodeWorkerIDOverflow = "WORKER_ID_OVERFLOW"

	// Validation errors (400)
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"

	// Configuration errors (422)
	CodeEpoch = "EPOCH_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Retryable tells clients the same request may succeed later
	Retryable bool `json:"retryable,omitempty"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidIdentifier creates an error for undecodable identifiers (400)
func NewInvalidIdentifier(format, value string, err error) *AppError {
	return &AppError{
		Code:       CodeInvalidIdentifier,
		Message:    fmt.Sprintf("invalid %s identifier", format),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"format": format, "value": value},
		Err:        err,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewTimeOverflow creates a transient capacity error (503)
func NewTimeOverflow(err error) *AppError {
	return &AppError{
		Code:       CodeTimeOverflow,
		Message:    "Identifier sequence exhausted, retry shortly",
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
		Err:        err,
	}
}

// NewWorkerIDOverflow creates a capacity error that will not clear on retry (503)
func NewWorkerIDOverflow(err error) *AppError {
	return &AppError{
		Code:       CodeWorkerIDOverflow,
		Message:    "Worker identity space exhausted for this format",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewEpoch creates an epoch configuration error (422)
func NewEpoch(err error) *AppError {
	return &AppError{
		Code:       CodeEpoch,
		Message:    "Epoch is inconsistent with the current time",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NewSystemTime creates a clock fault error (500)
func NewSystemTime(err error) *AppError {
	return &AppError{
		Code:       CodeSystemTime,
		Message:    "System clock is unusable",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// StatusClientClosedRequest is the non-standard status nginx logs when the
// client goes away before the response is written.
const StatusClientClosedRequest = 499

// NewCanceled creates an error for requests abandoned by the caller (499)
func NewCanceled(err error) *AppError {
	return &AppError{
		Code:       CodeCanceled,
		Message:    "Request canceled",
		HTTPStatus: StatusClientClosedRequest,
		Err:        err,
	}
}

// NewTimeout creates an error for requests that ran out of time (504)
func NewTimeout(err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "Request deadline exceeded",
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  true,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// FromGeneration maps shortid engine errors onto AppErrors. AppErrors and nil
// pass through unchanged.
func FromGeneration(err error) error {
	if err == nil || IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return NewCanceled(err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewTimeout(err)
	case errors.Is(err, shortid.ErrTimeOverflow):
		return NewTimeOverflow(err)
	case errors.Is(err, shortid.ErrWorkerIDOverflow):
		return NewWorkerIDOverflow(err)
	case errors.Is(err, shortid.ErrEpoch):
		return NewEpoch(err)
	case errors.Is(err, shortid.ErrSystemTime):
		return NewSystemTime(err)
	case errors.Is(err, shortid.ErrInvalidLength), errors.Is(err, shortid.ErrMalformed):
		return &AppError{
			Code:       CodeInvalidIdentifier,
			Message:    "invalid identifier",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	}
	return NewInternal(err)
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsRetryable checks if the client may retry the request unchanged
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}
