package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationErrors maps a failed validate.Struct call to problem detail entries
func validationErrors(err error) []ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	result := make([]ValidationError, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		var message string
		switch e.Tag() {
		case "required":
			message = "field is required"
		case "max":
			message = "must be at most " + e.Param() + " characters"
		case "min":
			message = "must be at least " + e.Param() + " characters"
		default:
			message = "validation failed on " + e.Tag()
		}
		result = append(result, ValidationError{Field: e.Field(), Message: message})
	}
	return result
}
