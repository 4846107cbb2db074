// pkg/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse error classification exposed to clients.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindUnauthorized Kind = "Unauthorized"
	KindNotFound     Kind = "NotFound"
	KindConflict     Kind = "Conflict"
	KindInternal     Kind = "InternalError"
)

// Machine-readable error codes carried alongside the kind.
const (
	CodeProjectNotFound  = "PROJECT_NOT_FOUND"
	CodeTaskNotFound     = "TASK_NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeProjectReadOnly  = "PROJECT_ARCHIVED_READ_ONLY"
	CodeEmailTaken       = "EMAIL_TAKEN"
	CodeForceRequired    = "FORCE_REQUIRED"
	CodeInvalidCreds     = "INVALID_CREDENTIALS"
	CodeInvalidToken     = "INVALID_TOKEN"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
)

// Error is the single failure type that crosses service boundaries. The HTTP
// layer renders it as {error, message, status}.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message, Status: http.StatusUnauthorized}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, Status: http.StatusNotFound}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Status: http.StatusConflict}
}

func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		cause:   err,
	}
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// HasCode reports whether err carries the given machine code.
func HasCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
