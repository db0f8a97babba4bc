// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

// Package result defines the uniform response envelope returned by every
// API operation. Services build envelopes; the HTTP boundary renders the
// embedded status code without inspecting the payload.
package result

// StatusCode is the HTTP status code carried inside an envelope.
type StatusCode int

// Status codes used by the API surface.
const (
	StatusOK              StatusCode = 200
	StatusBadRequest      StatusCode = 400
	StatusUnauthorized    StatusCode = 401
	StatusNotFound        StatusCode = 404
	StatusConflict        StatusCode = 409
	StatusTooManyRequests StatusCode = 429
	StatusInternalError   StatusCode = 500
)

// Result is the envelope wrapping every API response.
// Errors is always non-nil so it serializes as [] rather than null.
type Result[T any] struct {
	Success    bool       `json:"success"`
	StatusCode StatusCode `json:"statusCode"`
	Message    string     `json:"message"`
	Errors     []string   `json:"errors"`
	Data       *T         `json:"data"`
}

// OK creates a successful envelope carrying data.
func OK[T any](data T, message string) *Result[T] {
	return &Result[T]{
		Success:    true,
		StatusCode: StatusOK,
		Message:    message,
		Errors:     []string{},
		Data:       &data,
	}
}

// Error creates a failed envelope with no data.
func Error[T any](message string, code StatusCode) *Result[T] {
	return &Result[T]{
		Success:    false,
		StatusCode: code,
		Message:    message,
		Errors:     []string{},
	}
}

// ValidationError creates a BadRequest envelope carrying field-level errors.
func ValidationError[T any](message string, errs []string) *Result[T] {
	r := Error[T](message, StatusBadRequest)
	if len(errs) > 0 {
		r.Errors = errs
	}
	return r
}
