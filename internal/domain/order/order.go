// Package order assembles priced carts into placed orders: it gates on
// contact information, renders the receipts, and fans the notifications out
// to the SMS and email collaborators.
package order

import (
	"github.com/xenking/voice-order-api/internal/domain/pricing"
	"github.com/xenking/voice-order-api/internal/notify"
)

// Status tracks an order placement through its lifecycle. The only gated
// transition is CollectingContact → Pricing, which requires a non-empty name
// and a normalizable phone number. Notifying → Complete always succeeds
// regardless of individual channel outcomes.
type Status string

const (
	StatusCollectingContact Status = "COLLECTING_CONTACT"
	StatusPricing           Status = "PRICING"
	StatusNotifying         Status = "NOTIFYING"
	StatusComplete          Status = "COMPLETE"
)

// Customer identifies who the order is for.
type Customer struct {
	Name  string
	Phone string
	Email string
}

// Fulfillment describes how and when the order is handed over.
// Type is "pickup" or "delivery"; empty defaults to pickup. When defaults
// to ASAP.
type Fulfillment struct {
	Type    string
	When    string
	Address string
}

// QuoteRequest prices a cart without placing it.
type QuoteRequest struct {
	Items       []pricing.LineRequest
	Fulfillment Fulfillment
}

// QuoteResult is the priced cart plus the line the assistant reads back.
type QuoteResult struct {
	Priced        pricing.PricedOrder
	SpokenSummary string
}

// PlaceRequest places an order.
type PlaceRequest struct {
	Customer    Customer
	Fulfillment Fulfillment
	Items       []pricing.LineRequest
	Notes       string
}

// MissingContact reports which contact fields block order placement, plus
// the conversational prompt the assistant should speak to collect them.
type MissingContact struct {
	Name  bool `json:"name"`
	Phone bool `json:"phone"`
}

// PlaceResult is the outcome of a placement attempt. When Status is
// CollectingContact, Need and Say are populated and nothing was dispatched.
// When Status is Complete, OrderID, the priced cart, and both channel
// results are populated.
type PlaceResult struct {
	Status        Status
	OrderID       string
	Priced        pricing.PricedOrder
	SMS           notify.Result
	Email         notify.Result
	SpokenSummary string

	Need *MissingContact
	Say  string
}
