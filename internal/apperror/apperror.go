package apperror

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeForbidden       Code = "forbidden"
	CodeValidation      Code = "validation"
	CodeExternalService Code = "external_service"
	CodeInternal        Code = "internal"
)

// Error is the error every service returns to its callers. Details carries
// machine-readable context, e.g. the current status of an already decided application.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns e with key set in Details.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func NotFound(message string) *Error  { return New(CodeNotFound, message, nil) }
func Conflict(message string) *Error  { return New(CodeConflict, message, nil) }
func Forbidden(message string) *Error { return New(CodeForbidden, message, nil) }

func Validation(message string) *Error { return New(CodeValidation, message, nil) }

func Internal(message string, cause error) *Error {
	return New(CodeInternal, message, errors.WithStack(cause))
}

func ExternalService(message string, cause error) *Error {
	return New(CodeExternalService, message, cause)
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
