package errs

import (
	"strings"
	"time"
)

// FieldError is a field-level validation error.
//
//	{ "field": "email", "error": "must be a valid email" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the error type every API failure is reported with.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "ORDER_NOT_FOUND").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: when false, the error handler may replace Message with the
//     generic status text.
//   - Errors: per-field validation errors.
//   - RetryAfter: when positive, sent as the Retry-After header.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	RetryAfter time.Duration `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and Status are not
// compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	cp := *e
	cp.Message = message
	return &cp
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, 0 when
// no retry hint is set.
func (e *HTTPError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int((e.RetryAfter + time.Second - 1) / time.Second)
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
