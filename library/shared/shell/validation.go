package shell

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the process wide validator. Besides the built-in tags it knows notblank.
// Field names in errors are the json names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)

		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}

			return name
		})
	})

	return validate
}

// ValidateStruct checks the validate tags of v. Violations come back as core.ValidationError.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return errors.Join(core.ErrValidation, err)
	}

	fields := make(map[string]string, len(violations))
	for _, violation := range violations {
		fields[violation.Field()] = describeViolation(violation)
	}

	return core.ValidationError{Fields: fields}
}

func describeViolation(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "http_url":
		return "must be an absolute http(s) URL"
	case "oneof":
		return "must be one of " + violation.Param()
	case "eqfield":
		return "must match " + violation.Param()
	default:
		return "failed " + violation.Tag()
	}
}
