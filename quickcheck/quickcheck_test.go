package quickcheck_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-authgate/quickcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signToken mints a structurally valid token with a throwaway key. The key
// never reaches the code under test, which is the point: inspection must not
// depend on it.
func signToken(t *testing.T, claims *quickcheck.UnverifiedClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("a-key-the-inspector-never-sees"))
	require.NoError(t, err)

	return raw
}

func validClaims() *quickcheck.UnverifiedClaims {
	return &quickcheck.UnverifiedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:       "user@example.com",
		DisplayName: "Test User",
	}
}

func TestInspect(t *testing.T) {
	t.Run("accepts a well formed unexpired token without any key", func(t *testing.T) {
		raw := signToken(t, validClaims())

		claims, err := quickcheck.Inspect(raw)
		require.NoError(t, err)

		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, "Test User", claims.DisplayName)
	})

	t.Run("accepts a token whose signature would never verify", func(t *testing.T) {
		raw := signToken(t, validClaims())

		// break the signature segment entirely
		broken := raw[:len(raw)-4] + "AAAA"

		_, err := quickcheck.Inspect(broken)
		assert.NoError(t, err)
	})

	t.Run("rejects a token with no subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""

		_, err := quickcheck.Inspect(signToken(t, claims))
		assert.ErrorIs(t, err, quickcheck.ErrIncomplete)
	})

	t.Run("rejects a token with no email", func(t *testing.T) {
		claims := validClaims()
		claims.Email = ""

		_, err := quickcheck.Inspect(signToken(t, claims))
		assert.ErrorIs(t, err, quickcheck.ErrIncomplete)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := quickcheck.Inspect(signToken(t, claims))
		assert.ErrorIs(t, err, quickcheck.ErrExpired)
	})

	t.Run("rejects a token with no expiry claim", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil

		_, err := quickcheck.Inspect(signToken(t, claims))
		assert.ErrorIs(t, err, quickcheck.ErrExpired)
	})

	t.Run("rejects strings that are not compact JWS", func(t *testing.T) {
		for _, raw := range []string{"", "garbage", "one.two", "a.b.c.d"} {
			_, err := quickcheck.Inspect(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}

func TestAuthenticated(t *testing.T) {
	assert.False(t, quickcheck.Authenticated(""))
	assert.False(t, quickcheck.Authenticated("garbage"))
	assert.True(t, quickcheck.Authenticated(signToken(t, validClaims())))

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.False(t, quickcheck.Authenticated(signToken(t, expired)))
}
