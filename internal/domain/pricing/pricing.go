// Package pricing computes deterministic per-line and order totals for carts
// of resolved (or unresolved) item references.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/voice-order-api/internal/domain/catalog"
)

// DefaultTaxRate applies when no tax rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.085")

// LineRequest is one requested cart entry as supplied by the voice front-end.
// At least one of SKU or Name should be present; Qty below 1 (including the
// zero value for missing or non-numeric input) is floored to 1.
type LineRequest struct {
	SKU       string
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	Options   map[string]string
}

// PricedLine is one priced cart entry.
type PricedLine struct {
	Name      string
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
	Options   map[string]string
	LineTotal decimal.Decimal
	// Resolved reports whether the line matched a catalog item. Unresolved
	// lines carry client-supplied data and are priced as-is.
	Resolved bool
}

// PricedOrder is the complete priced cart.
type PricedOrder struct {
	Lines    []PricedLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Engine prices carts against a catalog index.
type Engine struct {
	taxRate decimal.Decimal
}

// NewEngine creates a pricing engine. A zero or negative tax rate falls back
// to DefaultTaxRate.
func NewEngine(taxRate decimal.Decimal) *Engine {
	if taxRate.LessThanOrEqual(decimal.Zero) {
		taxRate = DefaultTaxRate
	}
	return &Engine{taxRate: taxRate}
}

// TaxRate returns the configured tax rate.
func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Price resolves each line against the catalog and computes totals. Rounding
// to 2 decimal places happens independently at every stage (line, subtotal,
// tax, total), matching the receipts the voice scripts read back; the
// compounded ±0.01 drift across many lines is accepted behavior.
//
// The engine never rejects a cart: an unmatched reference degrades to the
// client-supplied name, SKU, and unit price so the voice agent can still
// complete the order. That leniency can under-price unknown items; callers
// that want strict behavior can gate on PricedLine.Resolved.
func (e *Engine) Price(index *catalog.Index, reqs []LineRequest) PricedOrder {
	lines := make([]PricedLine, 0, len(reqs))
	subtotal := decimal.Zero

	for _, req := range reqs {
		line := e.priceLine(index, req)
		subtotal = subtotal.Add(line.LineTotal)
		lines = append(lines, line)
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(e.taxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	return PricedOrder{
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}
}

// priceLine resolves a single request. SKU is preferred over name as the
// lookup key when both are present; the catalog price always wins over any
// client-supplied price so the voice front-end cannot tamper with pricing.
func (e *Engine) priceLine(index *catalog.Index, req LineRequest) PricedLine {
	key := req.SKU
	if key == "" {
		key = req.Name
	}

	qty := req.Qty
	if qty < 1 {
		qty = 1
	}

	line := PricedLine{
		Qty:     qty,
		Options: req.Options,
	}

	if item, err := index.Lookup(key); err == nil {
		line.Name = item.Name
		line.SKU = item.SKU
		line.UnitPrice = item.Price
		line.Resolved = true
	} else {
		// Ad-hoc item outside the catalog: keep whatever the caller sent.
		line.Name = req.Name
		if line.Name == "" {
			line.Name = req.SKU
		}
		if line.Name == "" {
			line.Name = "Item"
		}
		line.SKU = req.SKU
		if line.SKU == "" {
			line.SKU = catalog.DeriveSKU(line.Name)
		} else {
			line.SKU = catalog.DeriveSKU(line.SKU)
		}
		if req.UnitPrice.IsPositive() {
			line.UnitPrice = req.UnitPrice
		} else {
			line.UnitPrice = decimal.Zero
		}
	}

	line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
	return line
}
