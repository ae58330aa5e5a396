package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user and authorization operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAdmin           = errors.New("user is not an admin")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IsAuthorizationError reports whether err means the caller may not perform a mutation.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrNotAdmin)
}

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, isAdmin bool, createdAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		IsAdmin:   isAdmin,
		CreatedAt: createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, isAdmin bool, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService authenticates users and guards admin-only operations.
type AuthService interface {
	// RequireAdmin resolves token to a user and fails unless that user is an admin.
	RequireAdmin(ctx context.Context, token string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	CreateUser(ctx context.Context, email, name, password string, isAdmin bool) (*User, error)
}
