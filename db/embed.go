// Package db provides the embedded full menu used as the final catalog tier.
package db

import _ "embed"

// MenuCategorized is the complete categorized menu. It is the last sourcing
// tier and guarantees the catalog index is never empty, even when the remote
// menu URL and the local snapshot are both unavailable.
//
//go:embed menu_categorized.json
var MenuCategorized []byte
