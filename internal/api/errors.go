package api

import (
	"fmt"
	"net/http"
)

// Error represents an API error with an HTTP status
type Error struct {
	Status  int
	Message string
	Fields  []string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// NotFound creates a 404 error
func NotFound(format string, args ...interface{}) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Invalid creates a 400 error naming the offending fields
func Invalid(fields ...string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: "invalid or missing fields",
		Fields:  fields,
	}
}

// Internal creates a 500 error wrapping an unexpected failure
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
	}
}
