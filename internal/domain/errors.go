package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("resource conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrJobInactive        = errors.New("job is not accepting applications")
	ErrAIDisabled         = errors.New("AI features are not configured")
	ErrAIUnavailable      = errors.New("AI provider request failed")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)

// Error types used in ValidationError.Type.
const (
	ErrRequired     = "required"
	ErrInvalidField = "invalid_field"
	ErrMinLength    = "min_length"
	ErrMaxLength    = "max_length"
	ErrXSSDetected  = "xss_detected"
	ErrDateRange    = "date_range"
	ErrDuplicate    = "duplicate"
)
