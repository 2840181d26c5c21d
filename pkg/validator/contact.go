package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailRegex mirrors the signup form check: something@something.something without spaces
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError describes one invalid field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors is a list of invalid fields
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Error())
	}
	return strings.Join(messages, "; ")
}

// StructValidator validates tagged structs such as party member records
type StructValidator struct {
	validate *validator.Validate
	phones   *PhoneValidator
}

// NewStructValidator creates a validator with the contact_phone rule registered
func NewStructValidator() *StructValidator {
	v := validator.New()
	phones := NewPhoneValidator()

	// RegisterValidation only fails on an empty tag name or a nil func
	_ = v.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return phones.IsValid(fl.Field().String())
	})

	return &StructValidator{validate: v, phones: phones}
}

// Struct validates s and translates failures into FieldErrors
func (v *StructValidator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

// ValidEmail reports whether email has a plausible address shape
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func translate(errs validator.ValidationErrors) FieldErrors {
	out := make(FieldErrors, 0, len(errs))
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		var message string
		switch err.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "contact_phone":
			message = "must be a valid phone number"
		case "max":
			message = fmt.Sprintf("must be at most %s characters", err.Param())
		default:
			message = fmt.Sprintf("failed %s validation", err.Tag())
		}
		out = append(out, FieldError{Field: field, Message: message})
	}
	return out
}
