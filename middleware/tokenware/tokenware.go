// Package tokenware provides the full-verification middleware for API
// routes: it extracts the session token, runs secret-backed validation
// through the injected validator, and stores the verified claims in the
// request locals for handlers to consume.
package tokenware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultContextKey is where verified claims are stored in the request locals
const DefaultContextKey = "auth_claims"

// Claims is the verified claim surface handlers rely on.
// This mirrors the SessionClaims type from the authgate package to avoid
// import cycles.
type Claims interface {
	UserID() string
	Expires() time.Time
}

// TokenValidator runs secret backed verification on a raw token.
// This mirrors the TokenService.Validate method from the authgate package.
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// ValidatorFunc adapts a plain function to a TokenValidator
type ValidatorFunc func(tokenString string) (Claims, error)

func (f ValidatorFunc) Validate(tokenString string) (Claims, error) {
	return f(tokenString)
}

// TokenReader extracts the raw token from the request, usually the session
// cookie manager.
type TokenReader interface {
	Read(c *fiber.Ctx) string
}

type Config struct {
	// Validator is required, it performs the full verification
	Validator TokenValidator

	// Reader extracts the raw token; required
	Reader TokenReader

	// ContextKey is where verified claims land in c.Locals
	ContextKey string

	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool

	// ErrorHandler turns verification failures into responses
	ErrorHandler fiber.ErrorHandler
}

func configDefaults(cfg Config) Config {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}
	return cfg
}

// New builds the middleware. Tokens that are missing, malformed, expired, or
// carry a bad signature are all collapsed into the same unauthorized
// response, the caller learns nothing beyond "not authenticated".
func New(cfg Config) fiber.Handler {
	cfg = configDefaults(cfg)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := ""
		if cfg.Reader != nil {
			raw = cfg.Reader.Read(c)
		}

		if raw == "" {
			return cfg.ErrorHandler(c, errors.New("missing or malformed JWT", errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized))
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// ClaimsFromContext retrieves verified claims stored by the middleware
func ClaimsFromContext(c *fiber.Ctx, key string) (Claims, bool) {
	if key == "" {
		key = DefaultContextKey
	}

	claims, ok := c.Locals(key).(Claims)
	return claims, ok
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthorized",
	})
}
