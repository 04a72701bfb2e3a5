package handler

import (
	"net/http"
)

// menuItem is one entry in the GET /menu response.
type menuItem struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// menuResponse is the GET /menu envelope. Source labels which catalog tier
// is active: live, categorized, fallback, or error_fallback.
type menuResponse struct {
	Items  []menuItem `json:"items"`
	Source string     `json:"source"`
}

// Menu returns the flattened catalog and its sourcing tier.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	index, source := h.catalog.Index(r.Context())

	items := make([]menuItem, 0, index.Len())
	for _, it := range index.Items() {
		items = append(items, menuItem{
			SKU:      it.SKU,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Category: it.Category,
		})
	}

	writeJSON(w, http.StatusOK, menuResponse{Items: items, Source: source})
}
