package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is a failure with a code a caller can branch on. Message is for
// people; Details carries the values it was built from.
type AppError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets Cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New derives Retryable from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Retryable: IsRetryableCode(code)}
}

// build is New plus a cause and alternating detail key/value pairs.
func build(code ErrorCode, message string, cause error, kvs ...any) *AppError {
	e := New(code, message)
	e.Cause = cause
	for i := 0; i+1 < len(kvs); i += 2 {
		e.WithDetail(kvs[i].(string), kvs[i+1])
	}
	return e
}

// As finds the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

func IsCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsRetryable is false for errors without an AppError in their chain.
func IsRetryable(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Retryable
}

func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

func ResourceNotFound(resource string) *AppError {
	return build(ErrCodeResourceNotFound, "Resource "+resource+" does not exist.", nil, "resource", resource)
}

func StorageUnavailable(provider string, cause error) *AppError {
	return build(ErrCodeStorageUnavailable, "Storage provider "+provider+" is unavailable.", cause, "provider", provider)
}

// ReadFailed leaves line out of the message and details unless it is positive.
func ReadFailed(resource string, line int, cause error) *AppError {
	if line <= 0 {
		return build(ErrCodeReadFailed, "Failed to read from "+resource+".", cause, "resource", resource)
	}
	return build(ErrCodeReadFailed, fmt.Sprintf("Failed to read line %d of %s.", line, resource), cause,
		"resource", resource, "line", line)
}

func ProcessFailed(step string, cause error) *AppError {
	return build(ErrCodeProcessFailed, "Item processing failed in step "+step+".", cause, "step", step)
}

func WriteFailed(resource string, cause error) *AppError {
	return build(ErrCodeWriteFailed, "Failed to write to "+resource+".", cause, "resource", resource)
}

func Canceled(cause error) *AppError {
	return build(ErrCodeCanceled, "The run was canceled.", cause)
}
