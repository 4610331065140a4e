package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("request timed out")
	ErrTransport    = errors.New("network error")

	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrDuplicateSkill = errors.New("skill already added")
)

// ValidationError is a local, pre-submission failure for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ServerValidationError is a 400 response; the server rejected the input.
type ServerValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ServerValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return e.Message
}

// ServerError covers 5xx, 429 and any status without a dedicated error.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// IsRetryable reports whether trying the same request again may succeed.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrTransport) {
		return true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status >= 500 || se.Status == http.StatusTooManyRequests
	}
	return false
}
