package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Garlic Naan", "garlic naan"},
		{"punctuation collapses", "Garlic-Naan!", "garlic naan"},
		{"mixed separators", "  chicken___tikka--masala  ", "chicken tikka masala"},
		{"digits kept", "2 Samosas", "2 samosas"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Garlic-Naan!", "  Mango   LASSI  ", "veg dum biryani"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestDeriveSKU(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Garlic Naan", "GARLIC-NAAN"},
		{"punctuation", "Chicken Tikka (Boneless)", "CHICKEN-TIKKA-BONELESS"},
		{"already upper", "MANGO LASSI", "MANGO-LASSI"},
		{"digits", "2 Samosas", "2-SAMOSAS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSKU(tt.in))
		})
	}
}

func TestDeriveSKU_Deterministic(t *testing.T) {
	assert.Equal(t, DeriveSKU("Paneer Butter Masala"), DeriveSKU("Paneer Butter Masala"))
}

func TestDeriveSKU_CapsLongNames(t *testing.T) {
	long := strings.Repeat("extra spicy ", 10) + "vindaloo"
	sku := DeriveSKU(long)

	assert.LessOrEqual(t, len(sku), maxSKULen)
	assert.False(t, strings.HasSuffix(sku, "-"))
	assert.False(t, strings.HasPrefix(sku, "-"))
	// Cut lands on a word boundary, never mid-word.
	assert.True(t, strings.HasSuffix(sku, "EXTRA") || strings.HasSuffix(sku, "SPICY"), "got %q", sku)
}
