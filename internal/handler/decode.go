package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/voice-order-api/internal/domain/order"
	"github.com/xenking/voice-order-api/internal/domain/pricing"
)

// maxBodySize bounds request bodies; voice-agent payloads are tiny.
const maxBodySize = 1 << 20

// orderBody is the decoded shape shared by quote and place requests.
type orderBody struct {
	Customer    order.Customer
	Fulfillment order.Fulfillment
	Items       []pricing.LineRequest
	Notes       string
}

// readOrderBody decodes a request body tolerantly. Voice tool-call plumbing
// produces JSON in several shapes: a plain object, a JSON-encoded string, or
// an object whose payload hides under a "json" string field. Quantities and
// prices arrive as numbers or strings. Unknown fields are skipped; a body
// that cannot be decoded at all yields an empty orderBody rather than an
// error, keeping the degrade-over-reject policy of the pricing engine.
func readOrderBody(r *http.Request) orderBody {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return orderBody{}
	}
	body, err := decodeOrderBody(data, 0)
	if err != nil {
		return orderBody{}
	}
	return body
}

// decodeOrderBody parses one payload layer. depth guards against payloads
// that nest "json" fields recursively.
func decodeOrderBody(data []byte, depth int) (orderBody, error) {
	if depth > 2 {
		return orderBody{}, errors.New("body nested too deep")
	}

	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.String:
		inner, err := d.Str()
		if err != nil {
			return orderBody{}, errors.Wrap(err, "unwrap string body")
		}
		return decodeOrderBody([]byte(inner), depth+1)
	case jx.Object:
	default:
		return orderBody{}, errors.New("body is not an object")
	}

	var (
		body  orderBody
		inner string
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "json":
			if d.Next() == jx.String {
				s, err := d.Str()
				if err != nil {
					return err
				}
				inner = s
				return nil
			}
			return d.Skip()
		case "customer":
			return decodeCustomer(d, &body.Customer)
		case "fulfillment":
			return decodeFulfillment(d, &body.Fulfillment)
		case "items":
			return decodeItems(d, &body.Items)
		case "notes":
			body.Notes = flexString(d)
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return orderBody{}, errors.Wrap(err, "decode body")
	}

	if inner != "" {
		return decodeOrderBody([]byte(inner), depth+1)
	}
	return body, nil
}

func decodeCustomer(d *jx.Decoder, c *order.Customer) error {
	if d.Next() != jx.Object {
		return d.Skip()
	}
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			c.Name = flexString(d)
		case "phone":
			c.Phone = flexString(d)
		case "email":
			c.Email = flexString(d)
		default:
			return d.Skip()
		}
		return nil
	})
}

func decodeFulfillment(d *jx.Decoder, f *order.Fulfillment) error {
	if d.Next() != jx.Object {
		return d.Skip()
	}
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "type":
			f.Type = strings.ToLower(flexString(d))
		case "when":
			f.When = flexString(d)
		case "address":
			f.Address = flexString(d)
		default:
			return d.Skip()
		}
		return nil
	})
}

func decodeItems(d *jx.Decoder, items *[]pricing.LineRequest) error {
	if d.Next() != jx.Array {
		return d.Skip()
	}
	return d.Arr(func(d *jx.Decoder) error {
		if d.Next() != jx.Object {
			return d.Skip()
		}
		var line pricing.LineRequest
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "sku":
				line.SKU = flexString(d)
			case "name":
				line.Name = flexString(d)
			case "qty", "quantity":
				line.Qty = flexQty(d)
			case "unitPrice", "price":
				line.UnitPrice = flexDecimal(d)
			case "options":
				return decodeOptions(d, &line.Options)
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		*items = append(*items, line)
		return nil
	})
}

func decodeOptions(d *jx.Decoder, opts *map[string]string) error {
	if d.Next() != jx.Object {
		return d.Skip()
	}
	m := make(map[string]string)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() == jx.String {
			v, err := d.Str()
			if err != nil {
				return err
			}
			m[key] = v
			return nil
		}
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		m[key] = raw.String()
		return nil
	}); err != nil {
		return err
	}
	if len(m) > 0 {
		*opts = m
	}
	return nil
}

// flexString reads a string-ish value: strings pass through, numbers are
// stringified, everything else becomes "".
func flexString(d *jx.Decoder) string {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return ""
		}
		return s
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return ""
		}
		return n.String()
	default:
		_ = d.Skip()
		return ""
	}
}

// flexQty reads a quantity that may be a number or numeric string. Anything
// unparsable yields 0, which the pricing engine floors to 1.
func flexQty(d *jx.Decoder) int {
	switch d.Next() {
	case jx.Number:
		f, err := d.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0
		}
		dec, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return int(dec.IntPart())
	default:
		_ = d.Skip()
		return 0
	}
}

// flexDecimal reads a monetary value that may be a number or numeric string.
func flexDecimal(d *jx.Decoder) decimal.Decimal {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero
		}
		dec, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return dec
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero
		}
		dec, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero
		}
		return dec
	default:
		_ = d.Skip()
		return decimal.Zero
	}
}
