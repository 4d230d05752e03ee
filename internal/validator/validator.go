package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// "customertype" accepts the customer types a visitor can report
	_ = v.RegisterValidation("customertype", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		switch model.CustomerType(strings.ToLower(strings.TrimSpace(str))) {
		case model.CustomerNew, model.CustomerExisting:
			return true
		default:
			return false
		}
	})

	// Money is validated as its float value so numeric tags like gte apply
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if m, ok := field.Interface().(model.Money); ok {
			return m.InexactFloat64()
		}
		return nil
	}, model.Money{})

	return v
}
