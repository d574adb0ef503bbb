package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserStore is the slice of the user repository the identity provider needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// UserProvider resolves identities against a user store. It is careful to do
// comparable work for unknown identifiers and wrong passwords so response
// timing does not reveal whether an email is registered.
type UserProvider struct {
	store  UserStore
	logger Logger

	// hash compared against when the identifier is unknown, keeps the
	// bcrypt cost on the not-found path
	decoyHash string
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:     store,
		logger:    defLogger{},
		decoyHash: RandomPasswordHash(),
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifier and wrong password are indistinguishable to
// the caller, both in error value and in work performed.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			// burn a comparison anyway so both failure paths cost the same
			_ = ComparePasswordAndHash(password, u.decoyHash)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return identityFromUser(user), nil
}

// FindIdentityByIdentifier resolves a user by subject id or email without
// checking credentials. Used after full token verification.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	var user *User
	var err error

	if id, parseErr := uuid.Parse(identifier); parseErr == nil {
		user, err = u.store.GetByID(ctx, id)
	} else {
		user, err = u.store.GetByEmail(ctx, identifier)
	}

	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	return identityFromUser(user), nil
}

type authIdentity struct {
	id          string
	email       string
	displayName string
}

func identityFromUser(user *User) authIdentity {
	return authIdentity{
		id:          user.ID.String(),
		email:       user.Email,
		displayName: user.DisplayName,
	}
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) DisplayName() string {
	return a.displayName
}

var _ Identity = authIdentity{}
var _ IdentityProvider = (*UserProvider)(nil)
