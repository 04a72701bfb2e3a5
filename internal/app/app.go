package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/voice-order-api/db"
	"github.com/xenking/voice-order-api/internal/domain/catalog"
	"github.com/xenking/voice-order-api/internal/domain/order"
	"github.com/xenking/voice-order-api/internal/domain/pricing"
	"github.com/xenking/voice-order-api/internal/handler"
	"github.com/xenking/voice-order-api/internal/notify"
	"github.com/xenking/voice-order-api/pkg/health"
	"github.com/xenking/voice-order-api/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Metrics, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Catalog loader: remote URL, local snapshot, embedded fallback.
	loader := catalog.NewLoader(catalog.LoaderConfig{
		MenuURL:  cfg.MenuURL,
		MenuPath: cfg.MenuPath,
		Embedded: db.MenuCategorized,
	}, nil)

	taxRate, err := cfg.taxRate()
	if err != nil {
		return err
	}
	engine := pricing.NewEngine(taxRate)

	// Notification channels. Missing credentials degrade to per-send
	// not_configured failures, never to startup errors.
	sms := notify.NewTwilioSender(notify.TwilioConfig{
		AccountSID:          cfg.Twilio.AccountSID,
		AuthToken:           cfg.Twilio.AuthToken,
		From:                cfg.Twilio.From,
		MessagingServiceSID: cfg.Twilio.MessagingServiceSID,
	})
	email := notify.NewResendSender(notify.ResendConfig{
		APIKey:    cfg.Resend.APIKey,
		From:      cfg.Resend.From,
		DefaultTo: cfg.Resend.DefaultTo,
	})

	orders := order.NewService(order.ServiceConfig{
		RestaurantName:  cfg.RestaurantName,
		RestaurantPhone: cfg.RestaurantPhone,
	}, loader, engine, sms, email)

	// Health check service. Readiness triggers the initial catalog build, so
	// the first /readyz probe warms the index before traffic arrives.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", 15*time.Second, loader.Ready)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc_pause", time.Second, health.GCMaxPauseCheck(500*time.Millisecond))
	healthSvc.SetReady(true)

	h := handler.NewHandler(loader, orders)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	var api http.Handler = otelhttp.NewHandler(mux, "voice-order-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(api,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
