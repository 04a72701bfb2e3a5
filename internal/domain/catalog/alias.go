package catalog

// AliasTable maps known colloquial or short-form item references to their
// canonical normalized keys. It is built once at process start and never
// mutated afterwards, so lookups are safe from any goroutine.
type AliasTable struct {
	entries map[string]string
}

// defaultAliases covers the variants the voice front-end is known to produce.
// Keys and values are normalized at table build time, so entries can be
// written in their natural spelling.
var defaultAliases = map[string]string{
	// breads and common variants
	"roti":          "tandoori roti",
	"tandoori-roti": "tandoori roti",
	"garlic-naan":   "garlic naan",
	"butter-naan":   "butter naan",
	"tikka-naan":    "tikka naan",
	// drinks / lassi variants
	"mango-lassi": "mango lassi",
	"lassi-mango": "mango lassi",
	"sweet-lassi": "sweet lassi",
	"salt-lassi":  "salt lassi",
	// biryani short form
	"veg biryani": "veg dum biryani",
}

// NewAliasTable builds an alias table from raw alias → canonical pairs.
// Both sides are normalized so callers can pass natural spellings.
func NewAliasTable(pairs map[string]string) *AliasTable {
	entries := make(map[string]string, len(pairs))
	for raw, canonical := range pairs {
		k := Normalize(raw)
		v := Normalize(canonical)
		if k == "" || v == "" || k == v {
			continue
		}
		entries[k] = v
	}
	return &AliasTable{entries: entries}
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() *AliasTable {
	return NewAliasTable(defaultAliases)
}

// Resolve maps a raw item reference to its canonical normalized key. When no
// alias is registered the normalized input is returned unchanged.
func (t *AliasTable) Resolve(rawKey string) string {
	key := Normalize(rawKey)
	if canonical, ok := t.entries[key]; ok {
		return canonical
	}
	return key
}

// Len reports the number of registered aliases.
func (t *AliasTable) Len() int {
	return len(t.entries)
}
