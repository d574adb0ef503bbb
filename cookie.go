package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// TokenCookieName carries the signed session token, HTTP only
	TokenCookieName = "auth_token"
	// StateCookieName is an advisory marker readable by browser code. It
	// carries zero authority and no verification path accepts it as input.
	StateCookieName = "auth_state"
	// StateCookieValue is the constant marker value
	StateCookieValue = "1"
	// BearerScheme is the Authorization scheme accepted as cookie fallback
	BearerScheme = "Bearer"
)

// CookieManager maps session tokens to and from the HTTP transport. The
// operations only touch the request and response of the context passed in;
// there is no shared state.
type CookieManager struct {
	lifetime time.Duration
	secure   bool
	path     string
}

// NewCookieManager builds a manager issuing cookies that live as long as the
// token does. Set secure to false only for local development over plain HTTP.
func NewCookieManager(lifetime time.Duration, secure bool) *CookieManager {
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	return &CookieManager{
		lifetime: lifetime,
		secure:   secure,
		path:     "/",
	}
}

// Attach sets the session cookie and the advisory state marker on the
// outgoing response.
func (m *CookieManager) Attach(c *fiber.Ctx, token string) {
	expires := time.Now().Add(m.lifetime)

	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     m.path,
		Expires:  expires,
		MaxAge:   int(m.lifetime.Seconds()),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    StateCookieValue,
		Path:     m.path,
		Expires:  expires,
		MaxAge:   int(m.lifetime.Seconds()),
		HTTPOnly: false,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Read extracts the session token from the request: the session cookie when
// present, otherwise an Authorization bearer header. Returns an empty string
// when neither is set. The advisory state cookie is never consulted.
func (m *CookieManager) Read(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookieName); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, BearerScheme) {
		return ""
	}

	return strings.TrimSpace(token)
}

// Clear expires both cookies, used on logout.
func (m *CookieManager) Clear(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour * (24 * 365))

	for _, name := range []string{TokenCookieName, StateCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     m.path,
			Expires:  expired,
			MaxAge:   -1,
			HTTPOnly: name == TokenCookieName,
			Secure:   m.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
