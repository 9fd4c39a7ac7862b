package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"antifraud/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator *validator.Validate
	structOnce      sync.Once
)

// Engine returns the shared struct validator with the domain tags registered:
// "luhn", "region" and "ipaddr".
func Engine() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})

		// Registration only fails on an empty tag name.
		_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
			return IsValidCardNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			_, err := models.ParseRegion(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("ipaddr", func(fl validator.FieldLevel) bool {
			return IsValidIPv4(fl.Field().String())
		})

		structValidator = v
	})
	return structValidator
}

// Struct validates s and returns a Validator holding one message per failing
// field. Non-validation failures (e.g. s is not a struct) are returned as err.
func Struct(s interface{}) (*Validator, error) {
	v := New()
	err := Engine().Struct(s)
	if err == nil {
		return v, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), message(fe))
	}
	return v, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		if fe.Param() == "0" {
			return "must be greater than zero"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "luhn":
		return "must be a valid 16-digit card number"
	case "region":
		return "must be one of " + regionList()
	case "ipaddr":
		return "must be a valid IPv4 address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
