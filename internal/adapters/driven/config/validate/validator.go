// Package validate provides the SettingsValidator adapter.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/domain"
	"github.com/llSourcell/AI-Compliance-Copilot/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.SettingsValidator = (*Validator)(nil)

// Validator checks ClientSettings against their struct tags.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a new settings validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns domain.ErrInvalidSetting describing every failed field.
func (v *Validator) Validate(settings domain.ClientSettings) error {
	err := v.v.Struct(settings)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate settings: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidSetting, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s %q is not a valid URL", fe.Field(), rawValue(fe))
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", fe.Field(), rawValue(fe), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// rawValue bypasses String methods so the user sees what they typed.
func rawValue(fe validator.FieldError) string {
	v := reflect.ValueOf(fe.Value())
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(fe.Value())
}
