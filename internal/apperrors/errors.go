package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream request failed")
	ErrUnsupported  = errors.New("operation not supported")
)

// AppError is a structured error with an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrInvalidInput) && !errors.Is(e.Err, ErrUpstream) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput creates a 400 error whose message is shown to the user as is.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Upstream creates a 502 error for a non-2xx gateway response. The message is
// "<status> <body>" so it reads the same as the gateway's own failure text.
func Upstream(status int, body string) *AppError {
	msg := fmt.Sprintf("%d %s", status, body)
	return &AppError{
		Code:    "UPSTREAM_ERROR",
		Message: msg,
		Status:  http.StatusBadGateway,
		Err:     ErrUpstream,
	}
}

// Unsupported marks an operation a gateway does not implement.
func Unsupported(op string) *AppError {
	return &AppError{
		Code:    "UNSUPPORTED",
		Message: op + " not supported",
		Status:  http.StatusNotImplemented,
		Err:     ErrUnsupported,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// IsUserError reports whether err was caused by the user's input rather than a
// failed network call.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
