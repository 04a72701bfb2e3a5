package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxSKULen caps derived SKUs so voice transcripts with run-on item names
// cannot produce unbounded keys.
const maxSKULen = 48

// Normalize canonicalizes a free-text item reference for index lookups:
// lower-case, NFC composition, every maximal run of non-alphanumeric runes
// collapsed to a single space, trimmed. The result is idempotent, so a key
// that has already been normalized passes through unchanged.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// DeriveSKU produces the stable short identifier for an item name: uppercase,
// non-alphanumeric runs collapsed to a single "-", no leading or trailing
// separator, capped at maxSKULen bytes on a separator boundary. The same name
// always yields the same SKU.
func DeriveSKU(name string) string {
	s := norm.NFC.String(strings.ToUpper(name))

	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		} else {
			sep = true
		}
	}

	sku := b.String()
	if len(sku) > maxSKULen {
		cut := maxSKULen
		for cut > 0 && !utf8.RuneStart(sku[cut]) {
			cut--
		}
		sku = sku[:cut]
		if i := strings.LastIndexByte(sku, '-'); i > 0 {
			sku = sku[:i]
		}
		sku = strings.TrimRight(sku, "-")
	}
	return sku
}
