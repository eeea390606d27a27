package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Application roles. Students register for events; club and tnp accounts
// organize them; admin can additionally delete events.
const (
	RoleStudent = "student"
	RoleClub    = "club"
	RoleTNP     = "tnp"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the known role codes.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleClub, RoleTNP, RoleAdmin:
		return true
	}
	return false
}

// OrganizerRole reports whether role may create events and view attendee lists.
func OrganizerRole(role string) bool {
	switch role {
	case RoleClub, RoleTNP, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         string    `json:"role"`
	Interests    []string  `json:"interests"`
	Photo        string    `json:"photo"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(name, email, passwordHash, salt, role string, interests []string, photo, description string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Role:         role,
		Interests:    interests,
		Photo:        photo,
		Description:  description,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user's
// identity and role.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// ProfileUpdate carries the optional profile fields a user may change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Photo     *string
	Interests []string
}

// AuthService defines sign-up, login, and profile operations.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password, role string, interests []string, photo, description string) (*User, string, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error)
}
