package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a validation error with field-level details
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	var messages []string
	for field, msg := range v.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(messages)
	return strings.Join(messages, "; ")
}

// NewValidationError creates a new ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	errors := make(map[string]string)

	for _, err := range errs {
		field := err.Field()
		errors[field] = getErrorMessage(err)
	}

	return &ValidationError{Errors: errors}
}

// getErrorMessage returns a human-readable error message for a validation error
func getErrorMessage(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude (-90 to 90)", field)
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude (-180 to 180)", field)
	case "phone_ye":
		return fmt.Sprintf("%s must be a Yemeni mobile number (+967 followed by 8 or 9 digits)", field)
	case "car_type":
		return fmt.Sprintf("%s must be a valid car type (sedan, suv, pickup)", field)
	case "booking_status":
		return fmt.Sprintf("%s must be a valid booking status (confirmed, on_the_way, started, finished, postponed, canceled)", field)
	case "discount_type":
		return fmt.Sprintf("%s must be percentage or fixed", field)
	case "fleet_lead_status":
		return fmt.Sprintf("%s must be a valid lead status (new, contacted, trial, converted, rejected)", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid item", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Fields returns a copy of the field errors
func (v *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(v.Errors))
	for k, msg := range v.Errors {
		out[k] = msg
	}
	return out
}

// AddError adds a custom error message for a field
func (v *ValidationError) AddError(field, message string) {
	if v.Errors == nil {
		v.Errors = make(map[string]string)
	}
	v.Errors[field] = message
}

// HasErrors returns true if there are any validation errors
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}
