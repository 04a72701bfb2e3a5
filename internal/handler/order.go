package handler

import (
	"net/http"

	"github.com/xenking/voice-order-api/internal/domain/order"
	"github.com/xenking/voice-order-api/internal/domain/pricing"
	"github.com/xenking/voice-order-api/internal/notify"
)

// pricedLine is one priced cart entry as serialized in responses.
type pricedLine struct {
	Name      string            `json:"name"`
	SKU       string            `json:"sku"`
	Qty       int               `json:"qty"`
	UnitPrice float64           `json:"unitPrice"`
	Options   map[string]string `json:"options"`
	LineTotal float64           `json:"lineTotal"`
}

// smsResult is the SMS channel outcome in the place response.
type smsResult struct {
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// emailResult is the email channel outcome in the place response.
type emailResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// quoteResponse is the POST /quote_order envelope.
type quoteResponse struct {
	OK            bool         `json:"ok"`
	Lines         []pricedLine `json:"lines"`
	Subtotal      float64      `json:"subtotal"`
	Tax           float64      `json:"tax"`
	Total         float64      `json:"total"`
	SpokenSummary string       `json:"spokenSummary"`
}

// placeResponse is the POST /place_order success envelope.
type placeResponse struct {
	OK            bool         `json:"ok"`
	OrderID       string       `json:"orderId"`
	Lines         []pricedLine `json:"lines"`
	Subtotal      float64      `json:"subtotal"`
	Tax           float64      `json:"tax"`
	Total         float64      `json:"total"`
	SMS           smsResult    `json:"sms"`
	Email         emailResult  `json:"email"`
	SpokenSummary string       `json:"spokenSummary"`
}

// missingContactResponse is the POST /place_order gating envelope. It is a
// conversational turn, not an error, so it ships with HTTP 200.
type missingContactResponse struct {
	OK    bool                  `json:"ok"`
	Error string                `json:"error"`
	Need  *order.MissingContact `json:"need"`
	Say   string                `json:"say"`
}

// QuoteOrder prices the cart and returns the priced breakdown without
// placing the order or dispatching any notification.
func (h *Handler) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	body := readOrderBody(r)
	res := h.orders.Quote(r.Context(), order.QuoteRequest{
		Items:       body.Items,
		Fulfillment: body.Fulfillment,
	})

	writeJSON(w, http.StatusOK, quoteResponse{
		OK:            true,
		Lines:         toPricedLines(res.Priced.Lines),
		Subtotal:      res.Priced.Subtotal.InexactFloat64(),
		Tax:           res.Priced.Tax.InexactFloat64(),
		Total:         res.Priced.Total.InexactFloat64(),
		SpokenSummary: res.SpokenSummary,
	})
}

// PlaceOrder gates on contact information, prices the cart, dispatches the
// receipts, and returns the full result envelope.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	body := readOrderBody(r)
	res := h.orders.Place(r.Context(), order.PlaceRequest{
		Customer:    body.Customer,
		Fulfillment: body.Fulfillment,
		Items:       body.Items,
		Notes:       body.Notes,
	})

	if res.Status == order.StatusCollectingContact {
		writeJSON(w, http.StatusOK, missingContactResponse{
			OK:    false,
			Error: "missing_contact",
			Need:  res.Need,
			Say:   res.Say,
		})
		return
	}

	writeJSON(w, http.StatusOK, placeResponse{
		OK:            true,
		OrderID:       res.OrderID,
		Lines:         toPricedLines(res.Priced.Lines),
		Subtotal:      res.Priced.Subtotal.InexactFloat64(),
		Tax:           res.Priced.Tax.InexactFloat64(),
		Total:         res.Priced.Total.InexactFloat64(),
		SMS:           toSMSResult(res.SMS),
		Email:         toEmailResult(res.Email),
		SpokenSummary: res.SpokenSummary,
	})
}

func toPricedLines(lines []pricing.PricedLine) []pricedLine {
	out := make([]pricedLine, len(lines))
	for i, li := range lines {
		opts := li.Options
		if opts == nil {
			opts = map[string]string{}
		}
		out[i] = pricedLine{
			Name:      li.Name,
			SKU:       li.SKU,
			Qty:       li.Qty,
			UnitPrice: li.UnitPrice.InexactFloat64(),
			Options:   opts,
			LineTotal: li.LineTotal.InexactFloat64(),
		}
	}
	return out
}

func toSMSResult(r notify.Result) smsResult {
	return smsResult{Success: r.Success, SID: r.ID, Error: r.Error}
}

func toEmailResult(r notify.Result) emailResult {
	return emailResult{Success: r.Success, ID: r.ID, Error: r.Error}
}
