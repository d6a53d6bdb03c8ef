// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so the process fails fast on bad or missing config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Accept the legacy variable names of the previous deployment
//     (DATABASE_URL, SESSION_SECRET, MPESA_*, PORT).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values and reject unsafe ones (wildcard CORS,
//     unbounded pool waits).
//   - Provide sane defaults for optional config blocks.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping:
	- Env vars are read using the prefix FASTHUB_
	- Keys are lowercased, the prefix is removed, and "__" marks nesting:
	  FASTHUB_DATABASE__MAX_CONNS -> database.max_conns -> Config.Database.MaxConns
	- Legacy names are mapped explicitly by legacyKeys and loaded first, so a
	  FASTHUB_ variable always wins over its legacy counterpart.
*/

// EnvPrefix is the prefix shared by all application variables.
const EnvPrefix = "FASTHUB_"

// ErrInvalidConfig is wrapped by every error LoadConfig returns.
var ErrInvalidConfig = errors.New("invalid configuration")

// legacyKeys maps the variable names used by the previous deployment to
// koanf keys.
var legacyKeys = map[string]string{
	"DATABASE_URL":          "database.url",
	"SESSION_SECRET":        "auth.secret_key",
	"MPESA_CONSUMER_KEY":    "payment.consumer_key",
	"MPESA_CONSUMER_SECRET": "payment.consumer_secret",
	"MPESA_SHORTCODE":       "payment.shortcode",
	"MPESA_PASSKEY":         "payment.passkey",
	"MPESA_ENVIRONMENT":     "payment.environment",
	"PORT":                  "server.port",
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Payment       PaymentConfig        `koanf:"payment"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required,min=1,dive,required"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig controls the per-client request limiter on the API group.
// A zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
	Burst             int     `koanf:"burst" validate:"min=0"`
}

// DatabaseConfig contains the connection string and pool tuning.
//
// URL has the form <scheme>://<user>:<password>@<host>:<port>/<database>.
// It is never hard-coded; it must come from the environment.
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"required"`

	// MaxConns is the hard limit of connections checked out at once.
	MaxConns     int `koanf:"max_conns" validate:"required,min=1"`
	MaxIdleConns int `koanf:"max_idle_conns" validate:"min=0"`

	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"min=0"`

	// AcquireTimeout bounds how long opening a session may wait for a free
	// connection. It must be positive: an unbounded wait is rejected.
	AcquireTimeout time.Duration `koanf:"acquire_timeout" validate:"required,gt=0"`

	// ReleaseTimeout bounds the rollback issued when a session is released
	// with uncommitted work.
	ReleaseTimeout time.Duration `koanf:"release_timeout" validate:"required,gt=0"`

	// PrePing checks every connection handed out by the pool before use.
	PrePing bool `koanf:"pre_ping"`

	// HealthCheckInterval drives the background pool probe. Zero disables it.
	HealthCheckInterval time.Duration `koanf:"health_check_interval" validate:"min=0"`

	MigrateOnStart bool `koanf:"migrate_on_start"`
	SeedOnStart    bool `koanf:"seed_on_start"`
}

// AuthConfig stores authentication-related secrets.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required,min=16"`
}

// RedisConfig contains Redis connection details. An empty Address disables
// the background job queue.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// IntegrationConfig holds third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	MailFrom     string `koanf:"mail_from"`
}

// loadEnv builds the koanf instance: legacy names first, prefixed names on top.
// Empty values are skipped so an unset-but-exported variable never masks
// another source.
func loadEnv() (*koanf.Koanf, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		// Returning "" makes koanf skip the variable.
		if value == "" {
			return "", nil
		}
		return legacyKeys[key], value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: loading legacy env variables: %v", ErrInvalidConfig, err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", "."), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: loading env variables: %v", ErrInvalidConfig, err)
	}

	return k, nil
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults and validates the result.
//
// Unlike a logger.Fatal inside the loader, every failure is returned so the
// caller decides how to abort (cmd logs it and exits before serving).
func LoadConfig() (*Config, error) {
	k, err := loadEnv()
	if err != nil {
		return nil, err
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrInvalidConfig, err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// applyDefaults fills every optional value left empty by the environment.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.RateLimit.RequestsPerSecond > 0 && c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = int(c.Server.RateLimit.RequestsPerSecond) * 2
	}

	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = max(1, c.Database.MaxConns/2)
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 30 * time.Minute
	}
	if c.Database.AcquireTimeout == 0 {
		c.Database.AcquireTimeout = 5 * time.Second
	}
	if c.Database.ReleaseTimeout == 0 {
		c.Database.ReleaseTimeout = 5 * time.Second
	}

	if c.Payment.Environment == "" {
		c.Payment.Environment = PaymentEnvSandbox
	}

	if c.Integration.MailFrom == "" {
		c.Integration.MailFrom = "Fasthub <orders@fasthub.co.ke>"
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// logs and traces are labelled consistently.
	c.Observability.ServiceName = "fasthub"
	c.Observability.Environment = c.Primary.Env
	c.Observability.applyDefaults()
}

// Validate runs the struct tag rules and the checks tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for _, origin := range c.Server.CORSAllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return fmt.Errorf("%w: wildcard CORS origin is not allowed, list the frontend origins explicitly", ErrInvalidConfig)
		}
	}

	if err := c.Payment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("%w: observability: %v", ErrInvalidConfig, err)
	}

	return nil
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
