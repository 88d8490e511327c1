package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:5000" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret   string `usage:"HMAC secret for admin bearer tokens (STORE_JWT_SECRET)" flag:"jwt-secret"`
	DevMode     bool   `default:"false" usage:"Include error detail in 500 responses" flag:"dev-mode"`
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// RateLimitConfig controls the per-client sliding window rate limiters.
// General applies server-wide; Order and Login guard their single routes.
type RateLimitConfig struct {
	General LimiterConfig
	Order   LimiterConfig
	Login   LimiterConfig
}

// LimiterConfig is one sliding-window limit.
type LimiterConfig struct {
	Max    int           `usage:"Max requests per window"`
	Window time.Duration `usage:"Rate limit window duration"`
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
// files, and applies platform-specific defaults. Limiter defaults match the
// production deployment: 100 requests/15min general, 10 orders/hour,
// 5 login attempts/15min.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set STORE_JWT_SECRET")
	}

	return &cfg, nil
}

// applyDefaults fills limiter defaults and maps platform-provided
// environment variables (Railway, Render, etc.) that use standard names
// like DATABASE_URL and PORT.
func (c *Config) applyDefaults() {
	if c.RateLimit.General.Max == 0 {
		c.RateLimit.General = LimiterConfig{Max: 100, Window: 15 * time.Minute}
	}
	if c.RateLimit.Order.Max == 0 {
		c.RateLimit.Order = LimiterConfig{Max: 10, Window: time.Hour}
	}
	if c.RateLimit.Login.Max == 0 {
		c.RateLimit.Login = LimiterConfig{Max: 5, Window: 15 * time.Minute}
	}
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:5000" {
		c.Addr = "0.0.0.0:" + port
	}
}
