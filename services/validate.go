package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "IN"

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs struct-tag validation and reports the first failure
// as a *ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &ValidationError{Field: field, Message: tagMessage(fe)}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " entries"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "email":
		return "must be a valid email"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func validatePhone(field, phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	p, err := libphonenumber.Parse(phone, DefaultPhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return invalid(field, "phone number is not valid")
	}
	return nil
}

func validateEmail(field, email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	if err := validate.Var(email, "email"); err != nil {
		return invalid(field, "must be a valid email")
	}
	return nil
}

func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}
