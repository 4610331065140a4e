package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Value   interface{} `json:"value,omitempty"`
}

func NewValidationError(field, message, errType string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Type: errType}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SecuritySanitizer provides HTML sanitization helpers.
type SecuritySanitizer struct {
	policy *bluemonday.Policy
}

func NewSecuritySanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.StrictPolicy()}
}

func NewUGCSanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.UGCPolicy()}
}

func (s *SecuritySanitizer) SanitizeString(input string) string {
	return s.policy.Sanitize(input)
}

// ValidationBuilder accumulates field errors in the order they are checked.
type ValidationBuilder struct {
	errors    ValidationErrors
	sanitizer *SecuritySanitizer
}

func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{sanitizer: NewSecuritySanitizer()}
}

func (b *ValidationBuilder) addError(field, message, errType string, value interface{}) {
	b.errors = append(b.errors, ValidationError{Field: field, Message: message, Type: errType, Value: value})
}

func (b *ValidationBuilder) String(field, value string) *StringValidator {
	return &StringValidator{builder: b, field: field, value: value}
}

func (b *ValidationBuilder) Strings(field string, values []string) *StringSliceValidator {
	return &StringSliceValidator{builder: b, field: field, value: values}
}

func (b *ValidationBuilder) Date(field, value string) *DateValidator {
	return &DateValidator{builder: b, field: field, value: value}
}

func (b *ValidationBuilder) Build() error {
	if len(b.errors) == 0 {
		return nil
	}
	return b.errors
}

type StringValidator struct {
	builder *ValidationBuilder
	field   string
	value   string
}

func (sv *StringValidator) NotEmpty() *StringValidator {
	if strings.TrimSpace(sv.value) == "" {
		sv.builder.addError(sv.field, sv.field+" required", ErrRequired, sv.value)
	}
	return sv
}

func (sv *StringValidator) MinLength(min int) *StringValidator {
	if sv.value != "" && utf8.RuneCountInString(sv.value) < min {
		sv.builder.addError(sv.field, fmt.Sprintf("minimum length is %d characters", min), ErrMinLength, sv.value)
	}
	return sv
}

func (sv *StringValidator) MaxLength(max int) *StringValidator {
	if utf8.RuneCountInString(sv.value) > max {
		sv.builder.addError(sv.field, fmt.Sprintf("maximum length is %d characters", max), ErrMaxLength, sv.value)
	}
	return sv
}

func (sv *StringValidator) Pattern(pattern *regexp.Regexp, message string) *StringValidator {
	if sv.value != "" && !pattern.MatchString(sv.value) {
		sv.builder.addError(sv.field, message, ErrInvalidField, sv.value)
	}
	return sv
}

func (sv *StringValidator) Email() *StringValidator {
	if sv.value == "" {
		return sv
	}
	if err := getValidator().Var(sv.value, "email"); err != nil {
		sv.builder.addError(sv.field, "invalid email address", ErrInvalidField, sv.value)
	}
	return sv
}

func (sv *StringValidator) OneOf(allowed ...string) *StringValidator {
	if sv.value == "" {
		return sv
	}
	for _, a := range allowed {
		if sv.value == a {
			return sv
		}
	}
	sv.builder.addError(sv.field, "must be one of: "+strings.Join(allowed, ", "), ErrInvalidField, sv.value)
	return sv
}

func (sv *StringValidator) SecureSanitize() *StringValidator {
	if sv.value != "" {
		if sv.builder.sanitizer.SanitizeString(sv.value) != sv.value {
			sv.builder.addError(sv.field, "content contains potentially unsafe HTML", ErrXSSDetected, sv.value)
		}
	}
	return sv
}

type StringSliceValidator struct {
	builder *ValidationBuilder
	field   string
	value   []string
}

func (ssv *StringSliceValidator) MaxLength(max int) *StringSliceValidator {
	if len(ssv.value) > max {
		ssv.builder.addError(ssv.field, fmt.Sprintf("maximum %d items allowed", max), ErrMaxLength, ssv.value)
	}
	return ssv
}

func (ssv *StringSliceValidator) EachNotEmpty() *StringSliceValidator {
	for i, item := range ssv.value {
		if strings.TrimSpace(item) == "" {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i), "item cannot be empty", ErrRequired, item)
		}
	}
	return ssv
}

func (ssv *StringSliceValidator) EachMaxLength(max int) *StringSliceValidator {
	for i, item := range ssv.value {
		if utf8.RuneCountInString(item) > max {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i),
				fmt.Sprintf("maximum length is %d characters", max), ErrMaxLength, item)
		}
	}
	return ssv
}

func (ssv *StringSliceValidator) Unique() *StringSliceValidator {
	seen := make(map[string]struct{}, len(ssv.value))
	for i, item := range ssv.value {
		key := strings.ToLower(strings.TrimSpace(item))
		if _, ok := seen[key]; ok {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i), "duplicate item", ErrDuplicate, item)
			continue
		}
		seen[key] = struct{}{}
	}
	return ssv
}

func (ssv *StringSliceValidator) EachSecureSanitize() *StringSliceValidator {
	for i, item := range ssv.value {
		if item != "" && ssv.builder.sanitizer.SanitizeString(item) != item {
			ssv.builder.addError(fmt.Sprintf("%s[%d]", ssv.field, i),
				"content contains potentially unsafe HTML", ErrXSSDetected, item)
		}
	}
	return ssv
}

type DateValidator struct {
	builder *ValidationBuilder
	field   string
	value   string
}

func (dv *DateValidator) ISO8601() *DateValidator {
	if dv.value != "" {
		if _, err := time.Parse(DateLayout, dv.value); err != nil {
			dv.builder.addError(dv.field, "invalid date format (expected YYYY-MM-DD)", ErrInvalidField, dv.value)
		}
	}
	return dv
}

const DateLayout = "2006-01-02"

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily initializes and returns a shared validator instance with custom rules.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
		_ = validatorInst.RegisterValidation("job_type", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v == "" || JobType(v).Valid()
		})
		_ = validatorInst.RegisterValidation("app_status", func(fl validator.FieldLevel) bool {
			return ApplicationStatus(fl.Field().String()).Valid()
		})
	})
	return validatorInst
}

// ValidateStruct validates a struct using go-playground/validator and maps errors into
// ValidationErrors.
func ValidateStruct(model interface{}) error {
	if err := getValidator().Struct(model); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			mapped := make(ValidationErrors, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				mapped = append(mapped, ValidationError{
					Field:   fieldErr.Field(),
					Message: formatValidationMessage(fieldErr),
					Type:    ErrInvalidField,
					Value:   fieldErr.Value(),
				})
			}
			return mapped
		}
		return err
	}
	return nil
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "job_type":
		return "must be one of: full-time, part-time, contract, remote"
	case "app_status":
		return "must be one of: pending, shortlisted, rejected, hired"
	default:
		return err.Error()
	}
}
