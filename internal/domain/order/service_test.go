package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/voice-order-api/internal/domain/catalog"
	"github.com/xenking/voice-order-api/internal/domain/pricing"
	"github.com/xenking/voice-order-api/internal/notify"
)

// --- Mock implementations ---

type mockSMS struct {
	res    notify.Result
	to     string
	body   string
	called bool
}

func (m *mockSMS) SendSMS(_ context.Context, to, body string) notify.Result {
	m.called = true
	m.to = to
	m.body = body
	return m.res
}

type mockEmail struct {
	res     notify.Result
	to      string
	subject string
	html    string
	called  bool
}

func (m *mockEmail) SendEmail(_ context.Context, to, subject, html string) notify.Result {
	m.called = true
	m.to = to
	m.subject = subject
	m.html = html
	return m.res
}

// --- Helpers ---

var serviceMenuJSON = []byte(`{
	"categories": [
		{
			"name": "Breads",
			"items": [
				{"name": "Garlic Naan", "price": 4.00},
				{"name": "Tandoori Roti", "price": 3.00}
			]
		}
	]
}`)

func newTestService(t *testing.T, sms *mockSMS, email *mockEmail) *Service {
	t.Helper()
	loader := catalog.NewLoader(catalog.LoaderConfig{Embedded: serviceMenuJSON}, nil)
	engine := pricing.NewEngine(decimal.Zero)

	svc := NewService(ServiceConfig{
		RestaurantName:  "Paradise Tavern",
		RestaurantPhone: "+15550000000",
	}, loader, engine, sms, email)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

// --- Tests ---

func TestQuote(t *testing.T) {
	svc := newTestService(t, &mockSMS{}, &mockEmail{})

	res := svc.Quote(context.Background(), QuoteRequest{
		Items: []pricing.LineRequest{{Name: "garlic naan", Qty: 2}},
	})

	assert.True(t, res.Priced.Total.Equal(decimal.RequireFromString("8.68")))
	assert.Contains(t, res.SpokenSummary, "8.68 dollars")
	assert.Contains(t, res.SpokenSummary, "Pickup ASAP")
	assert.Contains(t, res.SpokenSummary, "Should I place the order?")
}

func TestPlace_MissingBothContactFields(t *testing.T) {
	sms := &mockSMS{}
	email := &mockEmail{}
	svc := newTestService(t, sms, email)

	res := svc.Place(context.Background(), PlaceRequest{
		Items: []pricing.LineRequest{{Name: "garlic naan", Qty: 1}},
	})

	assert.Equal(t, StatusCollectingContact, res.Status)
	require.NotNil(t, res.Need)
	assert.True(t, res.Need.Name)
	assert.True(t, res.Need.Phone)
	assert.Contains(t, res.Say, "what's your name")
	assert.Empty(t, res.OrderID)
	assert.False(t, sms.called, "nothing may be dispatched before the contact gate")
	assert.False(t, email.called)
}

func TestPlace_MissingPhoneOnly(t *testing.T) {
	svc := newTestService(t, &mockSMS{}, &mockEmail{})

	res := svc.Place(context.Background(), PlaceRequest{
		Customer: Customer{Name: "Alice", Phone: "not a number"},
	})

	assert.Equal(t, StatusCollectingContact, res.Status)
	require.NotNil(t, res.Need)
	assert.False(t, res.Need.Name)
	assert.True(t, res.Need.Phone)
	assert.Contains(t, res.Say, "country code")
}

func TestPlace_MissingNameOnly(t *testing.T) {
	svc := newTestService(t, &mockSMS{}, &mockEmail{})

	res := svc.Place(context.Background(), PlaceRequest{
		Customer: Customer{Name: "   ", Phone: "7195551212"},
	})

	assert.Equal(t, StatusCollectingContact, res.Status)
	require.NotNil(t, res.Need)
	assert.True(t, res.Need.Name)
	assert.False(t, res.Need.Phone)
	assert.Equal(t, "Got it. What name should I put on the order?", res.Say)
}

func TestPlace_Success(t *testing.T) {
	sms := &mockSMS{res: notify.Result{Success: true, ID: "SM123"}}
	email := &mockEmail{res: notify.Result{Success: true, ID: "em_456"}}
	svc := newTestService(t, sms, email)

	res := svc.Place(context.Background(), PlaceRequest{
		Customer: Customer{Name: "Alice", Phone: "(719) 555-1212", Email: "alice@example.com"},
		Items:    []pricing.LineRequest{{Name: "garlic naan", Qty: 2}},
		Notes:    "extra crispy",
	})

	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, "ord_1700000000000", res.OrderID)
	assert.Nil(t, res.Need)

	require.True(t, sms.called)
	assert.Equal(t, "+17195551212", sms.to)
	assert.Contains(t, sms.body, "Paradise Tavern")
	assert.Contains(t, sms.body, "ord_1700000000000")
	assert.Contains(t, sms.body, "2 x Garlic Naan @ $4.00 = $8.00")
	assert.Contains(t, sms.body, "Total: $8.68")
	assert.Contains(t, sms.body, "Notes: extra crispy")
	assert.True(t, strings.HasSuffix(sms.body, "Reply STOP to opt out. HELP for help."))

	require.True(t, email.called)
	assert.Equal(t, "alice@example.com", email.to)
	assert.Contains(t, email.subject, "ord_1700000000000")
	assert.Contains(t, email.html, "Garlic Naan")
	assert.Contains(t, email.html, "$8.68")

	assert.Equal(t, "SM123", res.SMS.ID)
	assert.Equal(t, "em_456", res.Email.ID)
	assert.Contains(t, res.SpokenSummary, "I've texted your receipt.")
	assert.Contains(t, res.SpokenSummary, "I've also emailed it.")
}

func TestPlace_ChannelFailureStillCompletes(t *testing.T) {
	sms := &mockSMS{res: notify.Failure("Sender not A2P/TF verified yet")}
	email := &mockEmail{res: notify.Result{Success: true, ID: "em_1"}}
	svc := newTestService(t, sms, email)

	res := svc.Place(context.Background(), PlaceRequest{
		Customer: Customer{Name: "Bob", Phone: "7195551212"},
		Items:    []pricing.LineRequest{{Name: "tandoori roti", Qty: 1}},
	})

	assert.Equal(t, StatusComplete, res.Status)
	assert.False(t, res.SMS.Success)
	assert.Equal(t, "Sender not A2P/TF verified yet", res.SMS.Error)
	assert.True(t, res.Email.Success)
	assert.Contains(t, res.SpokenSummary, "I couldn't text the receipt.")
	assert.Contains(t, res.SpokenSummary, "I've also emailed it.")
}

func TestPlace_BothChannelsFail(t *testing.T) {
	sms := &mockSMS{res: notify.Failure("not_configured")}
	email := &mockEmail{res: notify.Failure("missing_RESEND_API_KEY")}
	svc := newTestService(t, sms, email)

	res := svc.Place(context.Background(), PlaceRequest{
		Customer: Customer{Name: "Carol", Phone: "7195551212"},
		Items:    []pricing.LineRequest{{Name: "garlic naan", Qty: 1}},
	})

	assert.Equal(t, StatusComplete, res.Status, "notification failures never fail the order")
	assert.NotEmpty(t, res.OrderID)
	assert.Contains(t, res.SpokenSummary, "Email not sent.")
}

func TestPlace_DeliveryFulfillment(t *testing.T) {
	sms := &mockSMS{res: notify.Result{Success: true}}
	email := &mockEmail{res: notify.Result{Success: true}}
	svc := newTestService(t, sms, email)

	res := svc.Place(context.Background(), PlaceRequest{
		Customer:    Customer{Name: "Dave", Phone: "7195551212"},
		Fulfillment: Fulfillment{Type: "delivery", When: "6pm", Address: "12 Elm St"},
		Items:       []pricing.LineRequest{{Name: "garlic naan", Qty: 1}},
	})

	assert.Contains(t, res.SpokenSummary, "Delivery 6pm")
	assert.Contains(t, sms.body, "Delivery: 6pm")
	assert.Contains(t, email.html, "12 Elm St")
}
