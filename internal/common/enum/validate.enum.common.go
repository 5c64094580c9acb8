package enum

import "github.com/go-playground/validator/v10"

type validatable interface {
	IsValid() bool
}

// ValidateEnum backs the `enum` validator tag. Any enum type exposing
// IsValid() can use it.
func ValidateEnum(fl validator.FieldLevel) bool {
	if v, ok := fl.Field().Interface().(validatable); ok {
		return v.IsValid()
	}
	return false
}
