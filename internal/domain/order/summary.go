package order

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/xenking/voice-order-api/internal/domain/pricing"
)

// fulfillmentLabel returns "Delivery" or "Pickup" (the default).
func fulfillmentLabel(f Fulfillment) string {
	if f.Type == "delivery" {
		return "Delivery"
	}
	return "Pickup"
}

// fulfillmentWhen returns the handover time, defaulting to ASAP.
func fulfillmentWhen(f Fulfillment) string {
	if f.When == "" {
		return "ASAP"
	}
	return f.When
}

// spokenQuoteSummary is the read-back line for a quote: the running total
// and a confirmation question.
func spokenQuoteSummary(priced pricing.PricedOrder, f Fulfillment) string {
	var b strings.Builder
	b.WriteString("Current total ")
	b.WriteString(priced.Total.String())
	b.WriteString(" dollars. ")
	b.WriteString(fulfillmentLabel(f))
	b.WriteString(" ")
	b.WriteString(fulfillmentWhen(f))
	b.WriteString(". Should I place the order?")
	return b.String()
}

// spokenPlaceSummary is the read-back line after placement, including
// per-channel delivery outcomes.
func spokenPlaceSummary(res *PlaceResult, restaurant string, customer Customer, f Fulfillment) string {
	var b strings.Builder
	b.WriteString("Order ")
	b.WriteString(res.OrderID)
	b.WriteString(" placed at ")
	b.WriteString(restaurant)
	b.WriteString(". Customer ")
	b.WriteString(customer.Name)
	if customer.Phone != "" {
		b.WriteString(", phone ")
		b.WriteString(customer.Phone)
	}
	b.WriteString(". Total ")
	b.WriteString(res.Priced.Total.String())
	b.WriteString(" dollars. ")
	b.WriteString(fulfillmentLabel(f))
	b.WriteString(" ")
	b.WriteString(fulfillmentWhen(f))
	b.WriteString(". ")
	if res.SMS.Success {
		b.WriteString("I've texted your receipt. ")
	} else {
		b.WriteString("I couldn't text the receipt. ")
	}
	if res.Email.Success {
		b.WriteString("I've also emailed it.")
	} else {
		b.WriteString("Email not sent.")
	}
	return b.String()
}

// smsText renders the plain-text SMS receipt. The STOP/HELP footer is a
// carrier compliance requirement and must stay on every message.
func smsText(orderID, restaurant, restaurantPhone string, customer Customer, f Fulfillment, priced pricing.PricedOrder, notes string) string {
	var b strings.Builder
	b.WriteString(restaurant)
	b.WriteString("\nOrder ")
	b.WriteString(orderID)
	b.WriteString("\nCustomer: ")
	b.WriteString(customer.Name)
	b.WriteString("\n")
	if customer.Phone != "" {
		b.WriteString("Phone: ")
		b.WriteString(customer.Phone)
		b.WriteString("\n")
	}
	b.WriteString("\nItems:\n")
	for _, li := range priced.Lines {
		fmt.Fprintf(&b, "%d x %s @ $%s = $%s\n",
			li.Qty, li.Name, li.UnitPrice.StringFixed(2), li.LineTotal.StringFixed(2))
	}
	b.WriteString("\nSubtotal: $")
	b.WriteString(priced.Subtotal.StringFixed(2))
	b.WriteString("\nTax: $")
	b.WriteString(priced.Tax.StringFixed(2))
	b.WriteString("\nTotal: $")
	b.WriteString(priced.Total.StringFixed(2))
	b.WriteString("\n")
	b.WriteString(fulfillmentLabel(f))
	b.WriteString(": ")
	b.WriteString(fulfillmentWhen(f))
	b.WriteString("\n")
	if notes != "" {
		b.WriteString("Notes: ")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	if restaurantPhone != "" {
		b.WriteString("\nQuestions? Call ")
		b.WriteString(restaurantPhone)
		b.WriteString("\n")
	}
	b.WriteString("\nReply STOP to opt out. HELP for help.")
	return b.String()
}

// emailTmpl renders the HTML receipt table for the email channel.
var emailTmpl = template.Must(template.New("receipt").Parse(`<div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;color:#222;max-width:640px;">
  <h1 style="margin:0 0 6px;font-size:20px;">{{.Restaurant}}</h1>
  <p style="margin:0 0 14px;color:#555;">Order Confirmation</p>

  <p style="margin:0 0 6px;"><strong>Order ID:</strong> {{.OrderID}}</p>
  <p style="margin:0 0 6px;"><strong>Customer:</strong> {{.CustomerLine}}</p>
  <p style="margin:0 0 14px;"><strong>{{.FulfillmentLabel}}:</strong> {{.FulfillmentWhen}}{{if .Address}} — {{.Address}}{{end}}</p>

  <table cellpadding="0" cellspacing="0" width="100%" style="border-collapse:collapse;margin:6px 0 12px;">
    <thead>
      <tr>
        <th align="left" style="padding:8px;border-bottom:2px solid #ddd;">Item</th>
        <th align="center" style="padding:8px;border-bottom:2px solid #ddd;">Qty</th>
        <th align="right" style="padding:8px;border-bottom:2px solid #ddd;">Unit</th>
        <th align="right" style="padding:8px;border-bottom:2px solid #ddd;">Line</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}<tr>
        <td style="padding:8px;border-bottom:1px solid #eee;">{{.Name}}</td>
        <td style="padding:8px;border-bottom:1px solid #eee;text-align:center;">{{.Qty}}</td>
        <td style="padding:8px;border-bottom:1px solid #eee;text-align:right;">${{.Unit}}</td>
        <td style="padding:8px;border-bottom:1px solid #eee;text-align:right;">${{.Line}}</td>
      </tr>{{end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="3" style="padding:8px;text-align:right;"><strong>Subtotal</strong></td>
        <td style="padding:8px;text-align:right;">${{.Subtotal}}</td>
      </tr>
      <tr>
        <td colspan="3" style="padding:8px;text-align:right;"><strong>Tax</strong></td>
        <td style="padding:8px;text-align:right;">${{.Tax}}</td>
      </tr>
      <tr>
        <td colspan="3" style="padding:8px;text-align:right;"><strong>Total</strong></td>
        <td style="padding:8px;text-align:right;"><strong>${{.Total}}</strong></td>
      </tr>
    </tfoot>
  </table>

  {{if .Notes}}<p style="margin:8px 0;"><strong>Notes:</strong> {{.Notes}}</p>{{end}}
  {{if .RestaurantPhone}}<p style="margin:12px 0 0;color:#555;">Questions? Call us at <strong>{{.RestaurantPhone}}</strong>.</p>{{end}}
</div>`))

type emailLine struct {
	Name string
	Qty  int
	Unit string
	Line string
}

type emailData struct {
	Restaurant       string
	RestaurantPhone  string
	OrderID          string
	CustomerLine     string
	FulfillmentLabel string
	FulfillmentWhen  string
	Address          string
	Lines            []emailLine
	Subtotal         string
	Tax              string
	Total            string
	Notes            string
}

// emailHTML renders the HTML email receipt.
func emailHTML(orderID, restaurant, restaurantPhone string, customer Customer, f Fulfillment, priced pricing.PricedOrder, notes string) (string, error) {
	customerLine := customer.Name
	if customerLine == "" {
		customerLine = "Guest"
	}
	if customer.Phone != "" {
		customerLine += " — " + customer.Phone
	}
	if customer.Email != "" {
		customerLine += " — " + customer.Email
	}

	lines := make([]emailLine, len(priced.Lines))
	for i, li := range priced.Lines {
		lines[i] = emailLine{
			Name: li.Name,
			Qty:  li.Qty,
			Unit: li.UnitPrice.StringFixed(2),
			Line: li.LineTotal.StringFixed(2),
		}
	}

	var b strings.Builder
	err := emailTmpl.Execute(&b, emailData{
		Restaurant:       restaurant,
		RestaurantPhone:  restaurantPhone,
		OrderID:          orderID,
		CustomerLine:     customerLine,
		FulfillmentLabel: fulfillmentLabel(f),
		FulfillmentWhen:  fulfillmentWhen(f),
		Address:          f.Address,
		Lines:            lines,
		Subtotal:         priced.Subtotal.StringFixed(2),
		Tax:              priced.Tax.StringFixed(2),
		Total:            priced.Total.StringFixed(2),
		Notes:            notes,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
