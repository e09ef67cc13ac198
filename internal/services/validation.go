package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every input rejected before reaching the database.
var ErrValidation = errors.New("validation failed")

// Validator checks entity struct tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator panics if a custom rule cannot be registered; that only
// happens when a rule is declared wrongly.
func NewValidator() *Validator {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// RegisterCustomValidations registers custom validation rules
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("nationalid", validateNationalID); err != nil {
		return fmt.Errorf("register nationalid validation: %w", err)
	}
	return nil
}

// validateNationalID checks for exactly 11 digits
func validateNationalID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeNationalID drops the punctuation of formatted ids such as
// 123.456.789-01.
func NormalizeNationalID(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Struct validates s and returns an ErrValidation with readable messages.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, TranslateValidationError(err))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func TranslateValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, field+" must be a valid email address")
		case "nationalid":
			messages = append(messages, field+" must have exactly 11 digits")
		case "max":
			messages = append(messages, field+" must be at most "+fe.Param()+" characters")
		case "gt":
			messages = append(messages, field+" must be greater than "+fe.Param())
		case "gte":
			messages = append(messages, field+" must be at least "+fe.Param())
		case "oneof":
			messages = append(messages, field+" must be one of: "+fe.Param())
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}
