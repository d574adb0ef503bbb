// Package auth issues and verifies cookie-backed session tokens at two
// trust tiers and shields the credential endpoint with a per-caller rate
// governor.
//
// Verification tiers:
//   - TokenService holds the signing secret and performs full HS256
//     verification. Its *SessionClaims result is the only value that may
//     authorize data access.
//   - The quickcheck subpackage inspects token structure and expiry without
//     the secret, for routing layers that must not hold key material. Its
//     result is a distinct type and carries no authority.
//
// Rate governing:
//   - LoginRateLimiter is a per-identity token bucket with lazy refill.
//     Buckets live for the process lifetime; there is no idle eviction and
//     no cross-instance state.
//
// Transport:
//   - CookieManager binds tokens to an HTTP-only cookie plus an advisory,
//     non-authoritative state marker, and accepts an Authorization bearer
//     header as fallback. The routeguard middleware redirects between
//     public-only and protected areas using quickcheck alone, while
//     tokenware gates API routes behind full verification.
package auth
