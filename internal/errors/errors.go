package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the backend rejected the bearer token (HTTP 401).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates a generic HTTP 403.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeTrialExpired indicates a 403 caused by an expired trial.
	ErrCodeTrialExpired ErrorCode = "trial_expired"
	// ErrCodeSubscriptionCancelled indicates a 403 caused by a cancelled subscription.
	ErrCodeSubscriptionCancelled ErrorCode = "subscription_cancelled"
	// ErrCodeRequestFailed indicates any other failed backend request.
	ErrCodeRequestFailed ErrorCode = "request_failed"
	// ErrCodeSSOTimeout indicates the host frame did not answer the session request in time.
	ErrCodeSSOTimeout ErrorCode = "sso_timeout"
	// ErrCodeSSORejected indicates the session request could not be delivered or was answered without data.
	ErrCodeSSORejected ErrorCode = "sso_rejected"
	// ErrCodeExchangeFailed indicates the backend refused the SSO payload.
	ErrCodeExchangeFailed ErrorCode = "exchange_failed"
	// ErrCodeMalformedCache indicates locally stored data could not be decoded.
	ErrCodeMalformedCache ErrorCode = "malformed_cache"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal client error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Status is the HTTP status that produced the error, if any.
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// Forbidden creates a new generic Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  403,
	}
}

// RequestFailed creates a new RequestFailed error for the given HTTP status.
func RequestFailed(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeRequestFailed,
		Message: message,
		Status:  status,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is any 403, business or generic.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden) || IsBusinessForbidden(err)
}

// IsBusinessForbidden checks if an error is a 403 with a known business reason.
func IsBusinessForbidden(err error) bool {
	return isCode(err, ErrCodeTrialExpired) || isCode(err, ErrCodeSubscriptionCancelled)
}

// IsRequestFailed checks if an error is a RequestFailed error.
func IsRequestFailed(err error) bool {
	return isCode(err, ErrCodeRequestFailed)
}

// IsSSOTimeout checks if an error is an SSO timeout.
func IsSSOTimeout(err error) bool {
	return isCode(err, ErrCodeSSOTimeout)
}

// IsSSORejected checks if an error is an SSO rejection.
func IsSSORejected(err error) bool {
	return isCode(err, ErrCodeSSORejected)
}

// IsExchangeFailed checks if an error is a failed SSO exchange.
func IsExchangeFailed(err error) bool {
	return isCode(err, ErrCodeExchangeFailed)
}

// IsMalformedCache checks if an error is a MalformedCache error.
func IsMalformedCache(err error) bool {
	return isCode(err, ErrCodeMalformedCache)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the message suitable for display: the AppError message
// without its cause chain, or err.Error() for other errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
