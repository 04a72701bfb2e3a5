package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the complete application configuration, loadable from
// environment variables (VOICE_ prefix), flags, or YAML config files.
type Config struct {
	Addr            string `default:"0.0.0.0:8080" usage:"API server listen address"`
	MenuURL         string `default:"" usage:"Remote menu URL (highest-priority catalog tier)" flag:"menu-url"`
	MenuPath        string `default:"" usage:"Local menu snapshot path, plain JSON or .gz" flag:"menu-path"`
	TaxRate         string `default:"0.085" usage:"Sales tax rate applied to the subtotal" flag:"tax-rate"`
	RestaurantName  string `default:"Paradise Tavern" usage:"Restaurant name used in receipts" flag:"restaurant-name"`
	RestaurantPhone string `default:"" usage:"Restaurant callback phone shown in receipts" flag:"restaurant-phone"`
	Twilio          TwilioConfig
	Resend          ResendConfig
	RateLimit       RateLimitConfig
	CORS            CORSConfig
	Graceful        GracefulConfig
}

// TwilioConfig holds SMS channel credentials. Empty credentials leave the
// channel in not_configured mode rather than failing startup.
type TwilioConfig struct {
	AccountSID          string `usage:"Twilio account SID (VOICE_TWILIO_ACCOUNT_SID)" flag:"twilio-account-sid"`
	AuthToken           string `usage:"Twilio auth token" flag:"twilio-auth-token"`
	From                string `usage:"Twilio sender phone number" flag:"twilio-from"`
	MessagingServiceSID string `usage:"Twilio messaging service SID (preferred over From)" flag:"twilio-messaging-service-sid"`
}

// ResendConfig holds email channel credentials.
type ResendConfig struct {
	APIKey    string `usage:"Resend API key (VOICE_RESEND_API_KEY)" flag:"resend-api-key"`
	From      string `default:"Order Bot <onboarding@resend.dev>" usage:"Email sender identity" flag:"resend-from"`
	DefaultTo string `usage:"Fallback recipient when the customer gave no email" flag:"resend-default-to"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "VOICE",
		Files:     []string{"config.yaml", "/etc/voice/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if _, err := cfg.taxRate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// taxRate parses the configured rate into a decimal.
func (c *Config) taxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse tax rate %q", c.TaxRate)
	}
	return rate, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like PORT and MENU_URL to the
// application's VOICE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.MenuURL == "" {
		if v := os.Getenv("MENU_URL"); v != "" {
			c.MenuURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
