package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AuthMode        string        `mapstructure:"AUTH_MODE"`
	AuthIssuer      string        `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL     string        `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience    string        `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey  string        `mapstructure:"AUTH_SIGNING_KEY"`
	DevUserEmail    string        `mapstructure:"DEV_USER_EMAIL"`
	PaymentGateway  string        `mapstructure:"PAYMENT_GATEWAY"`
	PaymentCurrency string        `mapstructure:"PAYMENT_CURRENCY"`
	StripeSecretKey string        `mapstructure:"STRIPE_SECRET_KEY"`
	OmisePublicKey  string        `mapstructure:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey  string        `mapstructure:"OMISE_SECRET_KEY"`
	RabbitURL       string        `mapstructure:"RABBIT_URL"`
	EventsExchange  string        `mapstructure:"EVENTS_EXCHANGE"`
}

var envKeys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "CORS_ORIGINS",
	"REQUEST_TIMEOUT", "AUTH_MODE", "AUTH_ISSUER", "AUTH_JWKS_URL", "AUTH_AUDIENCE",
	"AUTH_SIGNING_KEY", "DEV_USER_EMAIL", "PAYMENT_GATEWAY", "PAYMENT_CURRENCY",
	"STRIPE_SECRET_KEY", "OMISE_PUBLIC_KEY", "OMISE_SECRET_KEY", "RABBIT_URL",
	"EVENTS_EXCHANGE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // inferred, see ResolvedAuthMode
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("DEV_USER_EMAIL", "dev@localhost")
	v.SetDefault("PAYMENT_GATEWAY", "stripe")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("EVENTS_EXCHANGE", "portal.events")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range envKeys {
		v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.ResolvedAuthMode() == "development" {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Printf("WARNING: Unauthenticated requests act as %s.\n", cfg.DevUserEmail)
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise, the mode is inferred:
//   - AUTH_SIGNING_KEY set → "hmac" (shared-secret tokens)
//   - ENV=development      → "development"
//   - otherwise            → "external" (OIDC issuer / JWKS)
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.AuthSigningKey != "" {
		return "hmac"
	}
	if c.IsDev() {
		return "development"
	}
	return "external"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	switch mode := c.ResolvedAuthMode(); mode {
	case "development":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE \"development\" is not allowed when ENV=production")
		}
	case "hmac":
		if c.AuthSigningKey == "" {
			return fmt.Errorf("AUTH_SIGNING_KEY is required when AUTH_MODE is \"hmac\"")
		}
	case "external":
		if c.AuthIssuer == "" && c.AuthJWKSURL == "" {
			return fmt.Errorf(
				"AUTH_ISSUER or AUTH_JWKS_URL must be set when AUTH_MODE is \"external\" (current ENV=%q)", c.Env)
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"development\", \"hmac\", or \"external\", got %q", mode)
	}

	switch c.PaymentGateway {
	case "stripe":
		if c.IsProduction() && c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required in production")
		}
	case "omise":
		if c.OmisePublicKey == "" || c.OmiseSecretKey == "" {
			return fmt.Errorf("OMISE_PUBLIC_KEY and OMISE_SECRET_KEY are required when PAYMENT_GATEWAY is \"omise\"")
		}
	default:
		return fmt.Errorf("PAYMENT_GATEWAY must be \"stripe\" or \"omise\", got %q", c.PaymentGateway)
	}

	if len(c.PaymentCurrency) != 3 {
		return fmt.Errorf("PAYMENT_CURRENCY must be a 3-letter ISO code, got %q", c.PaymentCurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}
