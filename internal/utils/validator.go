// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("tagline", validateTagLine)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Tags are short labels, each at most 20 characters with no surrounding
// whitespace.
func validateTagLine(fl validator.FieldLevel) bool {
	tag := fl.Field().String()

	if tag == "" || len(tag) > 20 {
		return false
	}

	return tag == strings.TrimSpace(tag)
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "tagline":
		return "Tags must be non-empty, trimmed, and at most 20 characters"
	default:
		return e.Field() + " is invalid"
	}
}
