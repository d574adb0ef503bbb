package auth_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	auth "github.com/goliatone/go-authgate"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUserStore is a testify mock for the identity provider's store slice
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)

	var user *auth.User
	if v := args.Get(0); v != nil {
		user = v.(*auth.User)
	}

	return user, args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)

	var user *auth.User
	if v := args.Get(0); v != nil {
		user = v.(*auth.User)
	}

	return user, args.Error(1)
}

// MockIdentityProvider is a testify mock for the authenticator's provider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)

	var identity auth.Identity
	if v := args.Get(0); v != nil {
		identity = v.(auth.Identity)
	}

	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)

	var identity auth.Identity
	if v := args.Get(0); v != nil {
		identity = v.(auth.Identity)
	}

	return identity, args.Error(1)
}

// testIdentity is a plain Identity value for provider mocks
type testIdentity struct {
	id          string
	email       string
	displayName string
}

func (i testIdentity) ID() string          { return i.id }
func (i testIdentity) Email() string       { return i.email }
func (i testIdentity) DisplayName() string { return i.displayName }

// memUsers is an in memory Users implementation for end to end controller
// tests. The embedded generic repository is never touched; only the typed
// lookups and creation paths the auth flows use are implemented.
type memUsers struct {
	repository.Repository[*auth.User]

	mu      sync.Mutex
	byEmail map[string]*auth.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*auth.User{}}
}

func (m *memUsers) seed(user *auth.User) *auth.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	m.byEmail[user.Email] = user

	return user
}

func notFound(meta map[string]any) error {
	return repository.NewRecordNotFound().WithMetadata(meta)
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return m.GetByEmailTx(ctx, nil, email)
}

func (m *memUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}

	return nil, notFound(map[string]any{"email": email})
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return m.GetByIDTx(ctx, nil, id)
}

func (m *memUsers) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, notFound(map[string]any{"id": id.String()})
}

func (m *memUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	return m.CreateTx(ctx, nil, user)
}

func (m *memUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	return m.CreateTx(ctx, tx, user)
}

func (m *memUsers) Create(ctx context.Context, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	return m.CreateTx(ctx, nil, record, criteria...)
}

func (m *memUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	m.byEmail[record.Email] = record

	return record, nil
}

// memRepo satisfies RepositoryManager over memUsers. Transactions degrade to
// plain calls, which is all the registration flow needs here.
type memRepo struct {
	users *memUsers
}

func newMemRepo() *memRepo {
	return &memRepo{users: newMemUsers()}
}

func (m *memRepo) Validate() error { return nil }
func (m *memRepo) MustValidate()   {}

func (m *memRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *memRepo) Users() auth.Users {
	return m.users
}

var (
	_ auth.UserStore         = (*MockUserStore)(nil)
	_ auth.IdentityProvider  = (*MockIdentityProvider)(nil)
	_ auth.Identity          = testIdentity{}
	_ auth.Users             = (*memUsers)(nil)
	_ auth.RepositoryManager = (*memRepo)(nil)
	_ auth.UserStore         = (*memUsers)(nil)
)
