package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenLifetime() time.Duration
	GetIssuer() string
	GetRateLimitCapacity() int
	GetRateLimitWindow() time.Duration
	IsProduction() bool
}

// EnvConfig is the environment backed Config implementation. It is loaded
// once at startup and read only afterwards.
type EnvConfig struct {
	SigningKey           string `env:"AUTH_SIGNING_KEY"`
	TokenLifetimeSeconds int    `env:"AUTH_TOKEN_LIFETIME" envDefault:"86400"`
	Issuer               string `env:"AUTH_ISSUER" envDefault:"go-authgate"`
	RateLimitCapacity    int    `env:"AUTH_RATE_LIMIT_CAPACITY" envDefault:"5"`
	RateLimitWindowSecs  int    `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"60"`
	Production           bool   `env:"AUTH_PRODUCTION" envDefault:"true"`
}

// LoadConfig parses the environment into an EnvConfig and validates it.
// A missing signing key fails here so the process never serves traffic
// without one.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to parse auth environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces startup invariants, most importantly the signing key
func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		return ErrMissingSigningKey
	}

	return nil
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenLifetime() time.Duration {
	if c.TokenLifetimeSeconds <= 0 {
		return DefaultTokenLifetime
	}
	return time.Duration(c.TokenLifetimeSeconds) * time.Second
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetRateLimitCapacity() int {
	if c.RateLimitCapacity <= 0 {
		return DefaultRateLimitCapacity
	}
	return c.RateLimitCapacity
}

func (c *EnvConfig) GetRateLimitWindow() time.Duration {
	if c.RateLimitWindowSecs <= 0 {
		return DefaultRateLimitWindow
	}
	return time.Duration(c.RateLimitWindowSecs) * time.Second
}

func (c *EnvConfig) IsProduction() bool {
	return c.Production
}

var _ Config = (*EnvConfig)(nil)
