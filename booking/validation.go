package booking

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the clinic-specific tags used by request DTOs and tool inputs:
//
//	phone    - at least 10 digits once formatting is stripped
//	name     - at least 2 characters once trimmed
//	location - one of the clinic branches (display name or slug)
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("name", func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		_, ok := ParseLocation(fl.Field().String())
		return ok
	})
}

// NewValidator returns a validator with the clinic tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
