package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
//
// The ID is the opaque subject identifier that every other component uses to
// reference the user. Accounts are created once at signup and are immutable
// afterwards.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique display handle used for login.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Opaque to everything outside the auth package; never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser creates a User with a fresh ID and creation timestamp.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
