package validation

import (
	"regexp"
	"strings"

	"antifraud/internal/models"
)

var (
	cardNumberRegex = regexp.MustCompile(`^[0-9]{16}$`)
	ipv4Regex       = regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])$`)
)

// Validator collects field errors
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error for a field
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) CardNumber(field, number string) {
	v.Check(IsValidCardNumber(number), field, "must be a valid 16-digit card number")
}

func (v *Validator) IPv4(field, ip string) {
	v.Check(IsValidIPv4(ip), field, "must be a valid IPv4 address")
}

// IsValidCardNumber reports whether number is 16 digits and passes the Luhn check.
func IsValidCardNumber(number string) bool {
	if !cardNumberRegex.MatchString(number) {
		return false
	}
	return luhn(number)
}

// IsValidIPv4 accepts dotted-quad addresses with octets 0-255 and no leading zeros.
func IsValidIPv4(ip string) bool {
	return ipv4Regex.MatchString(ip)
}

// luhn expects an all-digit string.
func luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func regionList() string {
	names := make([]string, len(models.Regions))
	for i, r := range models.Regions {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
