package validation

import (
	"testing"
	"time"

	"antifraud/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4532015112830366", true},
		{"mastercard test number", "5425233430109903", true},
		{"sequential digits fail checksum", "1234567890123456", false},
		{"non numeric", "45320151128303ab", false},
		{"empty", "", false},
		{"single character", "4", false},
		{"too short", "453201511283036", false},
		{"too long", "45320151128303660", false},
		{"spaces", "4532 0151 1283 0366", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCardNumber(tt.number))
		})
	}
}

func TestIsValidIPv4(t *testing.T) {
	valid := []string{"0.0.0.0", "192.168.1.1", "255.255.255.255", "10.0.0.10", "1.2.3.4"}
	invalid := []string{"", "256.1.1.1", "1.2.3", "1.2.3.4.5", "01.2.3.4", "1.2.3.004", "a.b.c.d", "1.2.3.4 ", "::1"}

	for _, ip := range valid {
		assert.True(t, IsValidIPv4(ip), ip)
	}
	for _, ip := range invalid {
		assert.False(t, IsValidIPv4(ip), ip)
	}
}

func TestValidator_FirstErrorWins(t *testing.T) {
	v := New()
	v.IPv4("ip", "300.1.1.1")
	v.Check(false, "ip", "other")
	v.CardNumber("number", "4532015112830366")
	v.CardNumber("card", "1234567890123456")

	assert.False(t, v.Valid())
	assert.Equal(t, "must be a valid IPv4 address", v.Errors["ip"])
	assert.NotContains(t, v.Errors, "number")
	assert.Equal(t, "must be a valid 16-digit card number", v.Errors["card"])
}

type sample struct {
	Amount int64         `json:"amount" validate:"gt=0"`
	IP     string        `json:"ip" validate:"required,ipaddr"`
	Number string        `json:"number" validate:"required,luhn"`
	Region models.Region `json:"region" validate:"required,region"`
	Date   time.Time     `json:"date" validate:"required"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, err := Struct(sample{
			Amount: 150,
			IP:     "192.168.0.1",
			Number: "4532015112830366",
			Region: models.RegionEAP,
			Date:   time.Date(2022, 1, 22, 16, 4, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.True(t, v.Valid())
	})

	t.Run("every field invalid", func(t *testing.T) {
		v, err := Struct(sample{
			Amount: -1,
			IP:     "300.1.1.1",
			Number: "1234567890123456",
			Region: "MARS",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"amount": "must be greater than zero",
			"ip":     "must be a valid IPv4 address",
			"number": "must be a valid 16-digit card number",
			"region": "must be one of EAP, ECA, HIC, LAC, MENA, SA, SSA",
			"date":   "is required",
		}, v.Errors)
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := Struct(42)
		assert.Error(t, err)
	})
}
