// Package routeguard decides, per request, whether to pass through or
// redirect between the sign-in flow and the authenticated area.
//
// The guard runs in the constrained tier: it inspects the session cookie
// with quickcheck only, so it needs neither the signing secret nor the user
// store. A forged token can at worst route a caller to a protected page
// whose handlers re-verify with the secret and reject it.
package routeguard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-authgate/quickcheck"
)

// CookieReader mirrors the session cookie manager's read operation without
// importing it, so this package stays free of secret-holding code.
type CookieReader interface {
	Read(c *fiber.Ctx) string
}

type Config struct {
	// Reader extracts the raw session token from the request
	Reader CookieReader

	// ProtectedPrefixes are paths that require an authenticated session
	ProtectedPrefixes []string

	// PublicOnlyRoutes are paths an authenticated user should not see,
	// e.g. the login and signup pages
	PublicOnlyRoutes []string

	// APIPrefix is exempt from the guard entirely; API handlers enforce
	// their own authentication with full verification
	APIPrefix string

	// SignInRoute receives unauthenticated visitors of protected routes
	SignInRoute string

	// DefaultProtectedRoute receives authenticated visitors of public-only
	// routes
	DefaultProtectedRoute string
}

func configDefaults(cfg Config) Config {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	if cfg.SignInRoute == "" {
		cfg.SignInRoute = "/login"
	}
	if cfg.DefaultProtectedRoute == "" {
		cfg.DefaultProtectedRoute = "/dashboard"
	}
	return cfg
}

// New builds the guard middleware. The decision is a pure function of the
// request path and the cookie: no I/O, no database, no signature checks.
func New(cfg Config) fiber.Handler {
	cfg = configDefaults(cfg)

	return func(c *fiber.Ctx) error {
		path := c.Path()

		if hasPrefix(path, cfg.APIPrefix) {
			return c.Next()
		}

		authenticated := false
		if cfg.Reader != nil {
			authenticated = quickcheck.Authenticated(cfg.Reader.Read(c))
		}

		if authenticated && matchesAny(path, cfg.PublicOnlyRoutes) {
			return redirect(c, cfg.DefaultProtectedRoute)
		}

		if !authenticated && matchesPrefixAny(path, cfg.ProtectedPrefixes) {
			return redirect(c, cfg.SignInRoute)
		}

		return c.Next()
	}
}

func redirect(c *fiber.Ctx, to string) error {
	status := fiber.StatusSeeOther
	if c.Method() == fiber.MethodGet {
		status = fiber.StatusFound
	}
	return c.Redirect(to, status)
}

func matchesAny(path string, routes []string) bool {
	for _, r := range routes {
		if path == r {
			return true
		}
	}
	return false
}

func matchesPrefixAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(path, p) {
			return true
		}
	}
	return false
}

func hasPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
