// Package handler exposes the voice ordering API over HTTP. Handlers are
// thin adapters: decode the (often messy) voice-agent JSON, delegate to the
// domain services, and shape the response envelopes the voice scripts expect.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xenking/voice-order-api/internal/domain/catalog"
	"github.com/xenking/voice-order-api/internal/domain/order"
)

// Handler serves the menu, quote, and place endpoints.
type Handler struct {
	catalog *catalog.Loader
	orders  *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(loader *catalog.Loader, orders *order.Service) *Handler {
	return &Handler{
		catalog: loader,
		orders:  orders,
	}
}

// Register mounts the API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/menu", h.Menu)
	mux.HandleFunc("/quote_order", h.QuoteOrder)
	mux.HandleFunc("/place_order", h.PlaceOrder)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// methodNotAllowed responds 405 for anything but the expected method.
func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"error": allow + " only",
	})
}
