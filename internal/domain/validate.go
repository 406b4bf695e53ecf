package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the request against the backend's input contract.
func (r RecipeRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	return toValidationError(fieldErrs[0])
}

func toValidationError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}

	var msg string
	switch field {
	case "ingredients":
		if fe.Tag() == "nonblank" {
			msg = "ingredient names must not be blank"
		} else {
			msg = "at least one ingredient is required"
		}
	case "servings":
		msg = "servings must be between 1 and 12"
	case "calories":
		msg = "calories must be a positive whole number"
	case "dietaryPreferences":
		msg = "dietary preferences are too long"
	default:
		msg = "failed " + fe.Tag() + " check"
	}
	return &ValidationError{Field: field, Message: msg}
}
