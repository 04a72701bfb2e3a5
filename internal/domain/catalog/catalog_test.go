package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMenuJSON = []byte(`{
	"categories": [
		{
			"name": "Breads",
			"items": [
				{"name": "Garlic Naan", "price": 4.00},
				{"name": "Tandoori Roti", "price": 3.00}
			]
		},
		{
			"name": "Drinks",
			"items": [
				{"name": "Mango Lassi", "price": 5.50},
				{"name": "Garlic Naan", "price": 9.99}
			]
		}
	]
}`)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	m, err := ParseMenu(testMenuJSON)
	require.NoError(t, err)
	return NewIndex(Flatten(m), DefaultAliases())
}

func TestParseMenu_RejectsEmptyCategories(t *testing.T) {
	_, err := ParseMenu([]byte(`{"categories": []}`))
	require.Error(t, err)

	_, err = ParseMenu([]byte(`{}`))
	require.Error(t, err)

	_, err = ParseMenu([]byte(`not json`))
	require.Error(t, err)
}

func TestFlatten_FirstOccurrenceWins(t *testing.T) {
	m, err := ParseMenu(testMenuJSON)
	require.NoError(t, err)

	items := Flatten(m)
	require.Len(t, items, 3)

	var naan *Item
	for i := range items {
		if items[i].Name == "Garlic Naan" {
			naan = &items[i]
		}
	}
	require.NotNil(t, naan)
	assert.Equal(t, "Breads", naan.Category, "duplicate in Drinks must not replace the first entry")
	assert.True(t, naan.Price.Equal(decimal.RequireFromString("4.00")))
}

func TestIndex_LookupByNameAndSKU(t *testing.T) {
	ix := newTestIndex(t)

	byName, err := ix.Lookup("garlic naan")
	require.NoError(t, err)
	bySKU, err := ix.Lookup("GARLIC-NAAN")
	require.NoError(t, err)
	messy, err := ix.Lookup("  Garlic-Naan!  ")
	require.NoError(t, err)

	assert.Equal(t, byName, bySKU)
	assert.Equal(t, byName, messy)
	assert.Equal(t, "GARLIC-NAAN", byName.SKU)
}

func TestIndex_LookupAlias(t *testing.T) {
	ix := newTestIndex(t)

	viaAlias, err := ix.Lookup("roti")
	require.NoError(t, err)
	direct, err := ix.Lookup("tandoori roti")
	require.NoError(t, err)

	assert.Equal(t, direct, viaAlias)
}

func TestIndex_LookupMiss(t *testing.T) {
	ix := newTestIndex(t)

	_, err := ix.Lookup("unicorn steak")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAliasTable_SkipsSelfAndEmpty(t *testing.T) {
	table := NewAliasTable(map[string]string{
		"roti":      "tandoori roti",
		"naan":      "naan", // self-map after normalization
		"":          "something",
		"pointless": "",
	})

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "tandoori roti", table.Resolve("Roti"))
	assert.Equal(t, "naan", table.Resolve("naan"))
}
