package auth_test

import (
	"context"
	"testing"

	auth "github.com/goliatone/go-authgate"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashedUser(t *testing.T, email, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the identity on matching credentials", func(t *testing.T) {
		user := hashedUser(t, "user@example.com", "secret-password")

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

		provider := auth.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "user@example.com", "secret-password")
		require.NoError(t, err)

		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "user@example.com", identity.Email())
		assert.Equal(t, "Test User", identity.DisplayName())
		store.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		user := hashedUser(t, "known@example.com", "secret-password")

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "known@example.com").Return(user, nil)
		store.On("GetByEmail", ctx, "unknown@example.com").
			Return(nil, notFound(map[string]any{"email": "unknown@example.com"}))

		provider := auth.NewUserProvider(store)

		_, wrongPassword := provider.VerifyIdentity(ctx, "known@example.com", "bad-password")
		_, unknownEmail := provider.VerifyIdentity(ctx, "unknown@example.com", "bad-password")

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.Equal(t, wrongPassword, unknownEmail)
		assert.ErrorIs(t, wrongPassword, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("store failures are not mapped to credential errors", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "user@example.com").
			Return(nil, errors.New("connection refused", errors.CategoryInternal))

		provider := auth.NewUserProvider(store)

		_, err := provider.VerifyIdentity(ctx, "user@example.com", "secret-password")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})
}

func TestUserProvider_FindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves uuid identifiers by id", func(t *testing.T) {
		user := hashedUser(t, "user@example.com", "secret-password")

		store := new(MockUserStore)
		store.On("GetByID", ctx, user.ID).Return(user, nil)

		provider := auth.NewUserProvider(store)

		identity, err := provider.FindIdentityByIdentifier(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, user.Email, identity.Email())
		store.AssertExpectations(t)
	})

	t.Run("resolves non uuid identifiers by email", func(t *testing.T) {
		user := hashedUser(t, "user@example.com", "secret-password")

		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "user@example.com").Return(user, nil)

		provider := auth.NewUserProvider(store)

		identity, err := provider.FindIdentityByIdentifier(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		store.AssertExpectations(t)
	})

	t.Run("unknown identifiers map to identity not found", func(t *testing.T) {
		store := new(MockUserStore)
		store.On("GetByEmail", ctx, "ghost@example.com").
			Return(nil, notFound(map[string]any{"email": "ghost@example.com"}))

		provider := auth.NewUserProvider(store)

		_, err := provider.FindIdentityByIdentifier(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}
