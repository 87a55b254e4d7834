// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code is a stable machine-readable identifier so clients can route each
// failure kind to its own recovery affordance.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func New(code, detail string) *APIError {
	return &APIError{Code: code, Detail: detail}
}

// Internal is the generic envelope for infrastructure failures.
func Internal() *APIError {
	return &APIError{Code: "internal_error", Detail: "internal server error"}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: "validation_error", Detail: "validation failed", Fields: fields}
}
