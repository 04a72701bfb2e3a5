// Package catalog builds and queries the canonical menu: normalized item
// references (names or SKUs, with typos in casing and punctuation) resolve to
// catalog items with deterministic prices.
package catalog

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested item does not exist in the index.
var ErrNotFound = errors.New("item not found")

// Item represents a purchasable menu entry.
type Item struct {
	Name     string
	Price    decimal.Decimal
	SKU      string
	Category string
}

// Menu is the categorized wire shape served by the remote menu endpoint and
// stored in local snapshots.
type Menu struct {
	Categories []Category `json:"categories"`
}

// Category groups menu items under a display name.
type Category struct {
	Name  string      `json:"name"`
	Items []MenuEntry `json:"items"`
}

// MenuEntry is a single item inside a category.
type MenuEntry struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ParseMenu decodes categorized menu JSON. Payloads without a categories
// array are rejected so a broken upstream cannot install an empty catalog.
func ParseMenu(data []byte) (*Menu, error) {
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal menu")
	}
	if len(m.Categories) == 0 {
		return nil, errors.New("menu has no categories")
	}
	return &m, nil
}

// Index is an immutable lookup structure over a flattened menu. Each item is
// reachable under two keys: its normalized name and its normalized SKU.
type Index struct {
	items   []Item
	byKey   map[string]int
	aliases *AliasTable
}

// Flatten turns a categorized menu into a flat, de-duplicated item list.
// SKUs are derived from names. When two entries share a normalized name the
// first occurrence in source order wins; the tie-break is deterministic so
// every build of the same menu yields the same catalog.
func Flatten(m *Menu) []Item {
	seen := make(map[string]struct{})
	var out []Item
	for _, cat := range m.Categories {
		for _, e := range cat.Items {
			key := Normalize(e.Name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Item{
				Name:     e.Name,
				Price:    e.Price,
				SKU:      DeriveSKU(e.Name),
				Category: cat.Name,
			})
		}
	}
	return out
}

// NewIndex builds an Index over the given items, applying aliases on lookup.
// A nil alias table disables alias resolution.
func NewIndex(items []Item, aliases *AliasTable) *Index {
	byKey := make(map[string]int, 2*len(items))
	for i, it := range items {
		byKey[Normalize(it.Name)] = i
		byKey[Normalize(it.SKU)] = i
	}
	return &Index{items: items, byKey: byKey, aliases: aliases}
}

// Items returns the flattened catalog in build order.
func (ix *Index) Items() []Item {
	return ix.items
}

// Len reports the number of distinct catalog items.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Lookup resolves a raw item reference (name or SKU, any casing or
// punctuation) to its catalog item. Known aliases are rewritten to their
// canonical key before the lookup. Returns ErrNotFound on a miss.
func (ix *Index) Lookup(rawKey string) (Item, error) {
	key := Normalize(rawKey)
	if ix.aliases != nil {
		key = ix.aliases.Resolve(key)
	}
	i, ok := ix.byKey[key]
	if !ok {
		return Item{}, ErrNotFound
	}
	return ix.items[i], nil
}
