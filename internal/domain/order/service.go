package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/voice-order-api/internal/domain/catalog"
	"github.com/xenking/voice-order-api/internal/domain/pricing"
	"github.com/xenking/voice-order-api/internal/notify"
)

// ServiceConfig holds the branding used in receipts and spoken summaries.
type ServiceConfig struct {
	RestaurantName  string
	RestaurantPhone string
}

// Service orchestrates quoting and placing orders. Pricing is synchronous;
// notification dispatch fans out to both channels concurrently and joins
// before returning. A channel failure never fails the order.
type Service struct {
	cfg     ServiceConfig
	catalog *catalog.Loader
	engine  *pricing.Engine
	sms     notify.SMSSender
	email   notify.EmailSender

	now func() time.Time
}

// NewService creates an order Service with the required collaborators.
func NewService(
	cfg ServiceConfig,
	loader *catalog.Loader,
	engine *pricing.Engine,
	sms notify.SMSSender,
	email notify.EmailSender,
) *Service {
	if cfg.RestaurantName == "" {
		cfg.RestaurantName = "Paradise Tavern"
	}
	return &Service{
		cfg:     cfg,
		catalog: loader,
		engine:  engine,
		sms:     sms,
		email:   email,
		now:     time.Now,
	}
}

// Quote prices the cart without placing it and returns the read-back line.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) QuoteResult {
	index, _ := s.catalog.Index(ctx)
	priced := s.engine.Price(index, req.Items)
	return QuoteResult{
		Priced:        priced,
		SpokenSummary: spokenQuoteSummary(priced, req.Fulfillment),
	}
}

// Place runs the placement state machine:
//
//	CollectingContact → Pricing → Notifying → Complete
//
// The contact gate requires a non-empty name and a phone number that
// normalizes to E.164-like form; on failure the result stays in
// CollectingContact with a prompt naming exactly the missing fields, and no
// notification is dispatched. Once past the gate the order always completes:
// SMS and email run concurrently, each folding its own failure into the
// per-channel result.
func (s *Service) Place(ctx context.Context, req PlaceRequest) *PlaceResult {
	name := strings.TrimSpace(req.Customer.Name)
	phone := NormalizePhone(req.Customer.Phone)

	if name == "" || phone == "" {
		need := &MissingContact{Name: name == "", Phone: phone == ""}
		return &PlaceResult{
			Status: StatusCollectingContact,
			Need:   need,
			Say:    contactPrompt(need.Name, need.Phone),
		}
	}
	customer := Customer{Name: name, Phone: phone, Email: strings.TrimSpace(req.Customer.Email)}

	// Pricing.
	index, _ := s.catalog.Index(ctx)
	priced := s.engine.Price(index, req.Items)
	orderID := fmt.Sprintf("ord_%d", s.now().UnixMilli())

	res := &PlaceResult{
		Status:  StatusNotifying,
		OrderID: orderID,
		Priced:  priced,
	}

	// Notifying: both channels run concurrently and both complete (or fail)
	// before the response is returned. No retries; a failure is surfaced once
	// in the channel result.
	sms := smsText(orderID, s.cfg.RestaurantName, s.cfg.RestaurantPhone, customer, req.Fulfillment, priced, req.Notes)
	subject := fmt.Sprintf("%s — Order Confirmation %s", s.cfg.RestaurantName, orderID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.SMS = s.sms.SendSMS(gctx, customer.Phone, sms)
		return nil
	})
	g.Go(func() error {
		html, err := emailHTML(orderID, s.cfg.RestaurantName, s.cfg.RestaurantPhone, customer, req.Fulfillment, priced, req.Notes)
		if err != nil {
			res.Email = notify.Failure("email_error")
			return nil
		}
		res.Email = s.email.SendEmail(gctx, customer.Email, subject, html)
		return nil
	})
	_ = g.Wait()

	res.Status = StatusComplete
	res.SpokenSummary = spokenPlaceSummary(res, s.cfg.RestaurantName, customer, req.Fulfillment)

	zctx.From(ctx).Info("Order placed",
		zap.String("order_id", orderID),
		zap.String("customer", customer.Name),
		zap.String("total", priced.Total.String()),
		zap.Bool("sms_ok", res.SMS.Success),
		zap.Bool("email_ok", res.Email.Success),
	)
	return res
}
