package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid E.164 format", "+919876543210", "+919876543210"},
		{"with spaces", "+91 98765 43210", "+919876543210"},
		{"with dashes", "+1-212-555-1234", "+12125551234"},
		{"with parentheses", "+1 (212) 555-1234", "+12125551234"},
		{"national number uses first region", "98765 43210", "+919876543210"},
		{"leading and trailing spaces", "  +12125551234  ", "+12125551234"},
		{"empty string", "", ""},
		{"only whitespace", "   ", ""},
		{"letters", "call me", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("+1 (212) 555-1234")
	assert.Equal(t, once, NormalizePhone(once))
}

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Honda   City  ", "Honda City"},
		{"Swift\t\tDzire", "Swift Dzire"},
		{"", ""},
		{"   ", ""},
		{"a\u0000b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimAndNormalize(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@rental.io", NormalizeEmail("  Jane@Rental.IO "))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Plans changed\nsorry", NormalizeText("  Plans   changed \n  sorry  "))
	assert.Equal(t, "", NormalizeText("   "))
}
