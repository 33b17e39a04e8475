package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
)

// AppError carries an error kind (BaseError), a client-facing message and,
// for field-level failures, the field-keyed messages returned as the body.
type AppError struct {
	BaseError error
	Message   string
	Fields    map[string]string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Cause: %v)", e.BaseError.Error(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.BaseError.Error(), e.Message)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.BaseError, e.Err}
	}
	return []error{e.BaseError}
}

func NewAppError(base error, msg string, fields map[string]string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Fields: fields, Err: err}
}

// NewValidation wraps field-level validation messages.
func NewValidation(fields map[string]string) *AppError {
	return NewAppError(ErrInvalidInput, "validation failed", fields, nil)
}

func NewInvalidInput(msg string, err error) *AppError {
	return NewAppError(ErrInvalidInput, msg, nil, err)
}

// NewNotFound reports a missing resource as a single-key body, e.g.
// {"nopeProfile": "there is no profile"}.
func NewNotFound(field, msg string) *AppError {
	return NewAppError(ErrNotFound, msg, map[string]string{field: msg}, nil)
}

func NewConflict(field, msg string) *AppError {
	return NewAppError(ErrConflict, msg, map[string]string{field: msg}, nil)
}

func NewInternal(msg string, err error) *AppError {
	return NewAppError(ErrInternal, msg, nil, err)
}

func NewUnauthorized(msg string) *AppError {
	return NewAppError(ErrUnauthorized, msg, nil, nil)
}

func NewPermissionDenied(msg string) *AppError {
	return NewAppError(ErrPermission, msg, nil, nil)
}

func NewUnavailable(msg string, err error) *AppError {
	return NewAppError(ErrUnavailable, msg, nil, err)
}

// ToHTTPStatus is the single error-kind to status mapping. Not-found and
// conflict keep the 400 status existing profile clients depend on.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Body returns the JSON body for err. Internal errors never expose their cause.
func Body(err error) any {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return gin.H{"error": ErrInternal.Error()}
	}
	if len(appErr.Fields) > 0 {
		return appErr.Fields
	}
	if ToHTTPStatus(appErr) == http.StatusInternalServerError {
		return gin.H{"error": ErrInternal.Error()}
	}
	return gin.H{"error": appErr.Message}
}
