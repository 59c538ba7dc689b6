package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (KASIR_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	JWTSecret string        `usage:"HMAC secret for session tokens (KASIR_JWT_SECRET)" flag:"jwt-secret"`
	TokenTTL  time.Duration `default:"24h" usage:"Session token lifetime" flag:"token-ttl"`

	Storage   StorageConfig
	Store     StoreConfig
	Checkout  CheckoutConfig
	WhatsApp  WhatsAppConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "pebble", or "postgres".
	Backend     string `default:"pebble" usage:"Storage backend: memory, pebble, or postgres"`
	DataDir     string `default:"data" usage:"Pebble data directory" flag:"data-dir"`
	DatabaseURL string `usage:"PostgreSQL connection URL (KASIR_STORAGE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// StoreConfig holds the shop branding printed on receipts.
type StoreConfig struct {
	Name     string `default:"KEDAI ARUNIKA" usage:"Store name on receipts"`
	Address  string `default:"Barumadehe, Kao Teluk, Kabupaten Halmahera Utara, Maluku Utara" usage:"Store address on receipts"`
	Timezone string `default:"Asia/Jayapura" usage:"Timezone for receipt timestamps"`
}

// CheckoutConfig tunes checkout behaviour.
type CheckoutConfig struct {
	// DecrementStock writes decremented stock back to the catalog after a
	// successful checkout. Off by default: the legacy app never did, and
	// flipping this changes what the stock field means.
	DecrementStock bool `default:"false" usage:"Decrement product stock on checkout" flag:"decrement-stock"`
}

// WhatsAppConfig configures receipt delivery.
type WhatsAppConfig struct {
	CountryCode string `default:"62" usage:"Country calling code for phone normalization" flag:"country-code"`
	OpenBrowser bool   `default:"false" usage:"Open wa.me links in the local browser" flag:"open-browser"`
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
		EnvPrefix: "KASIR",
		Files:     []string{"config.yaml", "/etc/kasir/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Storage.Backend {
	case "memory", "pebble":
	case "postgres":
		if cfg.Storage.DatabaseURL == "" {
			return nil, errors.New("database URL is required: set KASIR_STORAGE_DATABASE_URL or DATABASE_URL")
		}
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set KASIR_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the application's KASIR_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Storage.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
