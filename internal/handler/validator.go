package handler

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the shared validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validatorOnce sync.Once
	validatorInst *Validator
)

// GetValidator returns the process-wide request validator
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("username", validateUsername)
		_ = v.RegisterValidation("rarity", validateRarity)
		validatorInst = &Validator{validate: v}
	})
	return validatorInst
}

// ValidateStruct validates s using its struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// validateUsername accepts a chat handle with an optional leading @ and no
// whitespace or control characters.
func validateUsername(fl validator.FieldLevel) bool {
	name := strings.TrimPrefix(fl.Field().String(), "@")
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// validateRarity accepts tier labels such as "E", "SS" or "SSS+".
// Whether the tier exists is decided by the economy config.
func validateRarity(fl validator.FieldLevel) bool {
	tier := fl.Field().String()
	if tier == "" {
		return true
	}
	for _, r := range tier {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' {
			return false
		}
	}
	return true
}

// FormatValidationError turns validator errors into a field → message map
// keyed by the JSON-ish lower-cased field name.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "username":
			errs[field] = "Invalid username"
		case "rarity":
			errs[field] = "Invalid rarity tier"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be %s or more", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}
	return errs
}
