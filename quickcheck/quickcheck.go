// Package quickcheck performs structural and expiry-only inspection of
// session tokens for routing decisions in constrained tiers.
//
// The package never touches the signing secret and never verifies a
// signature. A token that passes Inspect may still be forged; any privileged
// operation must re-verify it with the secret-backed TokenService. To keep
// that boundary visible in the type system, Inspect returns
// *UnverifiedClaims, which no privileged API accepts.
package quickcheck

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// UnverifiedClaims mirrors the session claim fields without asserting
// authenticity. It exists as a distinct type so constrained-tier results
// cannot be passed where a fully verified identity is required.
type UnverifiedClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// ErrStructure is returned for tokens without the expected three segment shape
var ErrStructure = errors.New("token does not have the expected structure", errors.CategoryBadInput)

// ErrIncomplete is returned when subject or email claims are missing
var ErrIncomplete = errors.New("token claims are incomplete", errors.CategoryBadInput)

// ErrExpired is returned when the expiry claim is missing or in the past
var ErrExpired = errors.New("token is expired", errors.CategoryAuth)

// Inspect decodes the claims segment of a compact JWS token without
// verifying the signature. It confirms the three segment structure, that
// subject and email are present, and that the token has not expired.
//
// Use it only to choose between routes; never to authorize data access.
func Inspect(raw string) (*UnverifiedClaims, error) {
	claims := &UnverifiedClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, ErrStructure.Category, ErrStructure.Message)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrIncomplete
	}

	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	return claims, nil
}

// Authenticated reports whether the token passes Inspect. Handy for route
// guards that only need the boolean.
func Authenticated(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := Inspect(raw)
	return err == nil
}
