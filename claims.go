package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set carried by a session token: the opaque
// subject identifier, the account email, and an optional display name on
// top of the registered temporal claims.
//
// A *SessionClaims value is only ever produced by TokenService.Validate,
// which makes it safe to treat as a verified identity. The constrained
// routing tier deliberately returns a different type (quickcheck.UnverifiedClaims)
// so an unsigned inspection result cannot leak into privileged code paths.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// Validate implements jwt.ClaimsValidator; the parser invokes it after the
// registered claims pass, so a signed token with a missing subject or email
// is still rejected.
func (c *SessionClaims) Validate() error {
	if c.RegisteredClaims.Subject == "" {
		return ErrTokenInvalid
	}

	if c.Email == "" {
		return ErrTokenInvalid
	}

	if c.RegisteredClaims.ExpiresAt == nil {
		return ErrTokenInvalid
	}

	// a token must live for some interval; exp at or before iat is never valid
	if c.RegisteredClaims.IssuedAt != nil &&
		!c.RegisteredClaims.ExpiresAt.Time.After(c.RegisteredClaims.IssuedAt.Time) {
		return ErrTokenInvalid
	}

	return nil
}

// UserID returns the subject claim
func (c *SessionClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *SessionClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

var _ jwt.ClaimsValidator = (*SessionClaims)(nil)
