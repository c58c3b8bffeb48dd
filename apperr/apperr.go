package apperr

import (
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeForbidden  Code = "FORBIDDEN"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is the single failure type returned by the validation and lifecycle
// components. The httpx layer translates it to a response envelope exactly once.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(entity string, id any) *Error {
	e := &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
	}
	if s := fmt.Sprint(id); s != "" {
		e.Details = map[string]any{"id": s}
	}
	return e
}

func Forbidden(msg string, args ...any) *Error {
	return &Error{
		Code:    CodeForbidden,
		Message: fmt.Sprintf(msg, args...),
	}
}

func Validation(msg string, args ...any) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf(msg, args...),
	}
}

// FieldValidation carries the offending field's id and label so the client
// can highlight the exact input.
func FieldValidation(fieldID, fieldLabel, msg string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: msg,
		Details: map[string]any{
			"fieldId":    fieldID,
			"fieldLabel": fieldLabel,
		},
	}
}

// Internal wraps an unexpected failure. The message sent to clients is
// generic; the cause is only ever logged server-side.
func Internal(cause error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "internal server error",
		cause:   cause,
	}
}
