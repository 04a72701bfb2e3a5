package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ten digit NANP", "7195551212", "+17195551212"},
		{"formatted NANP", "(719) 555-1212", "+17195551212"},
		{"eleven digits leading one", "1 719 555 1212", "+17195551212"},
		{"already E.164", "+447911123456", "+447911123456"},
		{"E.164 without plus", "447911123456", "+447911123456"},
		{"whitespace trimmed", "  7195551212  ", "+17195551212"},
		{"letters rejected", "call me maybe", ""},
		{"empty", "", ""},
		{"leading zero rejected", "0123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestContactPrompt(t *testing.T) {
	both := contactPrompt(true, true)
	nameOnly := contactPrompt(true, false)
	phoneOnly := contactPrompt(false, true)

	assert.Contains(t, both, "what's your name")
	assert.Contains(t, both, "+1 719-555-1212")
	assert.Equal(t, "Got it. What name should I put on the order?", nameOnly)
	assert.Contains(t, phoneOnly, "phone number")
	assert.Contains(t, phoneOnly, "country code")
}
