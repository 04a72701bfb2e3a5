package order

import (
	"regexp"
	"strings"
)

// e164Pattern matches an E.164 subscriber number with optional plus prefix.
var e164Pattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// NormalizePhone coerces free-form phone input into an E.164-like number.
// Ten digits are assumed to be NANP and get a +1 prefix; eleven digits
// starting with 1 get a plus; anything already E.164-shaped passes through
// with a plus ensured. Returns "" when the input cannot be normalized.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	}

	if e164Pattern.MatchString(raw) {
		if strings.HasPrefix(raw, "+") {
			return raw
		}
		return "+" + raw
	}
	return ""
}

// contactPrompt returns the exact line the assistant speaks when contact
// details are missing. The wording matters: the voice scripts branch on it.
func contactPrompt(needName, needPhone bool) string {
	switch {
	case needName && needPhone:
		return "I can place your order—what's your name, and what phone number should I send the confirmation to? Please include country code, for example +1 719-555-1212."
	case needName:
		return "Got it. What name should I put on the order?"
	default:
		return "Thanks. What phone number should I send the confirmation to? Please include the country code, e.g., +1 719-555-1212."
	}
}
