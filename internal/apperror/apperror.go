package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel (for errors.Is checks) plus the message the API
// actually returns. The response helper maps the sentinel to a status code and
// puts Message in the body verbatim.
type AppError struct {
	Err     error  // sentinel: ErrNotFound, ErrValidation, ErrUnauthorized
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundOrUnauthorized is used for ownership-scoped comment writes where a
// zero-rows-affected result deliberately does not distinguish "no such row"
// from "row owned by someone else" — distinguishing them would leak whether
// another user's comment exists.
func NotFoundOrUnauthorized(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found or unauthorized", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized returns an AppError for a protected operation reached without
// an authenticated identity. HTTP handlers map this to 401.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "Unauthorized",
	}
}
