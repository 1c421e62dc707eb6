package domain

import (
	"context"
	"time"
)

// Role is an application role carried in the user document and the token.
type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// User represents a registered user. PasswordHash is never serialized to JSON.
// swagger:model User
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"`
}

// AttendeeInfo is the contact projection of a user exposed on attendee lists.
// It deliberately carries no credential or role fields.
type AttendeeInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	// Create inserts the user; a duplicate email or username yields ErrConflict.
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByUsernameOrEmail returns a user matching either field, for the
	// pre-insert duplicate check.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	// ListByIDs returns the users for the given ids with credential fields
	// stripped by projection.
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}

// TokenIssuer issues a signed bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, role Role) (string, error)
}

// TokenVerifier verifies a bearer token and returns its identity claims.
// Verification is stateless; there is no server-side session store.
type TokenVerifier interface {
	Verify(token string) (userID string, role Role, err error)
}

// AuthService defines registration and login.
type AuthService interface {
	// Register creates a user. Field constraint violations yield a
	// *ValidationError; an email or username already in use yields ErrConflict.
	Register(ctx context.Context, name, username, email, password string) (*User, error)
	// Login returns a signed bearer token, or ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, error)
}
