package errs

import (
	"net/http"
	"time"
)

func statusCode(status int, code *string) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code defaults to "BAD_REQUEST" when nil; errors carries per-field
// validation failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusBadRequest, code),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusNotFound, code),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError, used when a write
// collides with existing data (duplicate key, insufficient stock).
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusConflict, code),
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string, retryAfter time.Duration) *HTTPError {
	return &HTTPError{
		Code:       statusCode(http.StatusTooManyRequests, nil),
		Message:    message,
		Status:     http.StatusTooManyRequests,
		Override:   true,
		RetryAfter: retryAfter,
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable HTTPError.
//
// A positive retryAfter is advertised to the client in the Retry-After
// header.
func NewServiceUnavailableError(message string, code string, retryAfter time.Duration) *HTTPError {
	c := code
	return &HTTPError{
		Code:       statusCode(http.StatusServiceUnavailable, &c),
		Message:    message,
		Status:     http.StatusServiceUnavailable,
		Override:   true,
		RetryAfter: retryAfter,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text; the real cause belongs in
// the logs, not in the response.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError wraps a validation failure into a 400 with field errors.
func ValidationError(message string, fields []FieldError) *HTTPError {
	code := "VALIDATION_FAILED"
	return NewBadRequestError(message, true, &code, fields)
}
