package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"committeehub/internal/domain"
)

// fakeCommitteeRepo is an in-memory domain.CommitteeRepository. Stored values are copied in and out.
type fakeCommitteeRepo struct {
	mu        sync.Mutex
	byID      map[string]domain.Committee
	getErr    error
	createErr error
	updateErr error
	creates   int
	updates   int
}

func newFakeCommitteeRepo(seed ...*domain.Committee) *fakeCommitteeRepo {
	f := &fakeCommitteeRepo{byID: make(map[string]domain.Committee)}
	for _, c := range seed {
		f.byID[c.ID] = *c
	}
	return f
}

func (f *fakeCommitteeRepo) List(ctx context.Context) ([]*domain.Committee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Committee, 0, len(f.byID))
	for _, c := range f.byID {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeCommitteeRepo) GetByID(ctx context.Context, id string) (*domain.Committee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrCommitteeNotFound
	}
	return &c, nil
}

func (f *fakeCommitteeRepo) Create(ctx context.Context, c *domain.Committee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[c.ID]; ok {
		return domain.ErrCommitteeExists
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeCommitteeRepo) Update(ctx context.Context, id string, changes domain.CommitteeChanges) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrCommitteeNotFound
	}
	changes.Apply(&c)
	f.byID[id] = c
	return nil
}

func (f *fakeCommitteeRepo) stored(id string) (domain.Committee, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	return c, ok
}

// fakeAuth implements domain.AuthService with a token → user table.
type fakeAuth struct {
	users map[string]*domain.User
	calls int
}

func (f *fakeAuth) RequireAdmin(ctx context.Context, token string) (*domain.User, error) {
	f.calls++
	u, ok := f.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	if !u.IsAdmin {
		return nil, domain.ErrNotAdmin
	}
	return u, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return "", nil, errors.New("not implemented")
}

func (f *fakeAuth) CreateUser(ctx context.Context, email, name, password string, isAdmin bool) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]*domain.User{
		"admin-token":  {ID: "u-admin", Email: "admin@example.com", IsAdmin: true},
		"member-token": {ID: "u-member", Email: "member@example.com", IsAdmin: false},
	}}
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	getErr    error
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = "created-1"
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeTokens implements domain.TokenIssuer and domain.TokenVerifier.
type fakeTokens struct {
	issueErr error
	subjects map[string]string
}

func (f *fakeTokens) Issue(userID, email string, isAdmin bool, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "token-" + userID, nil
}

func (f *fakeTokens) Verify(token string) (string, error) {
	if id, ok := f.subjects[token]; ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}

// fakeHasher implements domain.PasswordHasher: the hash is salt+":"+password.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}
func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}
