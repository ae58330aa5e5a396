package socket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"committeehub/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type emitted struct {
	Scope   Scope
	Event   string
	Payload json.RawMessage
}

// recordingEmitter implements Emitter by recording every call.
type recordingEmitter struct {
	mu    sync.Mutex
	calls []emitted
	err   error
}

func (r *recordingEmitter) Emit(_ context.Context, scope Scope, event string, payload any) error {
	if r.err != nil {
		return r.err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, emitted{Scope: scope, Event: event, Payload: b})
	return nil
}

func (r *recordingEmitter) only(t *testing.T) emitted {
	t.Helper()
	require.Len(t, r.calls, 1)
	return r.calls[0]
}

func decodeAs[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// memCommittees is an in-memory domain.CommitteeService with the same admin rules as the real one.
type memCommittees struct {
	mu      sync.Mutex
	byID    map[string]domain.Committee
	admins  map[string]bool
	listErr error
	editErr error
}

func newMemCommittees(seed ...*domain.Committee) *memCommittees {
	m := &memCommittees{
		byID:   map[string]domain.Committee{},
		admins: map[string]bool{"admin-token": true, "member-token": false},
	}
	for _, c := range seed {
		m.byID[c.ID] = *c
	}
	return m
}

func (m *memCommittees) authorize(token string) error {
	admin, ok := m.admins[token]
	if !ok {
		return domain.ErrInvalidToken
	}
	if !admin {
		return domain.ErrNotAdmin
	}
	return nil
}

func (m *memCommittees) List(ctx context.Context) ([]*domain.Committee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.Committee, 0, len(ids))
	for _, id := range ids {
		c := m.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (m *memCommittees) Get(ctx context.Context, id string) (*domain.Committee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrCommitteeNotFound
	}
	return &c, nil
}

func (m *memCommittees) Create(ctx context.Context, token string, in domain.CreateCommitteeInput) (*domain.Committee, error) {
	if err := m.authorize(token); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.ErrInvalidCommittee
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := domain.NewCommittee(in.Title, in.Description, in.Location, in.MeetingTime, in.Head)
	if _, ok := m.byID[c.ID]; ok {
		return nil, domain.ErrCommitteeExists
	}
	m.byID[c.ID] = *c
	return c, nil
}

func (m *memCommittees) Edit(ctx context.Context, token, id string, changes domain.CommitteeChanges) (*domain.Committee, error) {
	if err := m.authorize(token); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrCommitteeNotFound
	}
	if m.editErr != nil {
		return nil, m.editErr
	}
	changes.Apply(&c)
	m.byID[id] = c
	return &c, nil
}

// fakeAuth implements domain.AuthService for the login event.
type fakeAuth struct {
	loginErr error
}

func (f *fakeAuth) RequireAdmin(ctx context.Context, token string) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	if email != "admin@example.com" || password != "hunter22" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "admin-token", &domain.User{ID: "u-admin", Email: email, IsAdmin: true, PasswordHash: "secret"}, nil
}

func (f *fakeAuth) CreateUser(ctx context.Context, email, name, password string, isAdmin bool) (*domain.User, error) {
	return nil, errors.New("not used")
}
