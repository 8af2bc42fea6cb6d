package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the validate tags of a request DTO.
func Validate(req any) error {
	return validate.Struct(req)
}

// FailedTag returns the tag of the first failed rule on field, or "" when
// field passed.
func FailedTag(err error, field string) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return ""
	}
	for _, fe := range errs {
		if fe.Field() == field {
			return fe.Tag()
		}
	}
	return ""
}
