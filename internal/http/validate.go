package httpapi

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationMessage flattens validator field errors into one readable line.
func validationMessage(err error) string {
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid payload"
	}
	parts := make([]string, 0, len(invalid))
	for _, field := range invalid {
		switch field.Tag() {
		case "required":
			parts = append(parts, field.Field()+" is required")
		case "email":
			parts = append(parts, field.Field()+" must be a valid email")
		case "oneof":
			parts = append(parts, field.Field()+" must be one of "+field.Param())
		case "gt":
			parts = append(parts, field.Field()+" must be greater than "+field.Param())
		default:
			parts = append(parts, field.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
