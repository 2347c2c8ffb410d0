package myconfig

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "MARKET_"

	ProviderStripe = "stripe"
	ProviderMollie = "mollie"
)

type Config struct {
	HTTP struct {
		Port string `koanf:"port"`
	} `koanf:"http"`

	App struct {
		URL string `koanf:"url"`
	} `koanf:"app"`

	Auth struct {
		JWTSecret string `koanf:"jwt_secret"`
		Issuer    string `koanf:"issuer"`
	} `koanf:"auth"`

	Payment struct {
		Provider            string        `koanf:"provider"`
		StripeSecretKey     string        `koanf:"stripe_secret_key"`
		StripeWebhookSecret string        `koanf:"stripe_webhook_secret"`
		MollieAPIKey        string        `koanf:"mollie_api_key"`
		MollieTestMode      bool          `koanf:"mollie_test_mode"`
		FeePercentage       int64         `koanf:"fee_percentage"`
		Currency            string        `koanf:"currency"`
		Timeout             time.Duration `koanf:"timeout"`
	} `koanf:"payment"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Catalog struct {
		DSN string `koanf:"dsn"`
	} `koanf:"catalog"`

	Library struct {
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"library"`

	Log struct {
		File string `koanf:"file"`
	} `koanf:"log"`
}

func defaults() map[string]any {
	return map[string]any{
		"http.port":              "8080",
		"app.url":                "http://localhost:8080",
		"auth.issuer":            "marketplace",
		"payment.provider":       ProviderStripe,
		"payment.fee_percentage": 10,
		"payment.currency":       "usd",
		"payment.timeout":        "10s",
		"catalog.dsn":            "file:marketplace.db",
		"library.cache_ttl":      "10m",
	}
}

// Load layers defaults, an optional yaml file and MARKET_ environment variables (nested with __),
// e.g. MARKET_PAYMENT__STRIPE_SECRET_KEY.
func Load(configFile string) (Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		err = k.Load(file.Provider(configFile), yaml.Parser())
		if err != nil {
			return Config{}, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	// Cloud Run and App Engine dictate the port
	if port := os.Getenv("PORT"); port != "" {
		_ = k.Set("http.port", port)
	}

	var cfg Config
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port required")
	}
	switch c.Payment.Provider {
	case ProviderStripe:
		if c.Payment.StripeSecretKey == "" {
			return fmt.Errorf("payment.stripe_secret_key required for provider %s", c.Payment.Provider)
		}
		// an empty secret verifies signatures made with an empty key
		if c.Payment.StripeWebhookSecret == "" {
			return fmt.Errorf("payment.stripe_webhook_secret required for provider %s", c.Payment.Provider)
		}
	case ProviderMollie:
		if c.Payment.MollieAPIKey == "" {
			return fmt.Errorf("payment.mollie_api_key required for provider %s", c.Payment.Provider)
		}
	default:
		return fmt.Errorf("payment.provider %q not supported", c.Payment.Provider)
	}
	if c.Payment.FeePercentage < 0 || c.Payment.FeePercentage > 100 {
		return fmt.Errorf("payment.fee_percentage must be within 0..100, got %d", c.Payment.FeePercentage)
	}
	if c.Payment.Timeout <= 0 {
		return fmt.Errorf("payment.timeout must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret required")
	}
	return nil
}
