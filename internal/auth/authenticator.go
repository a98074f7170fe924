package auth

import (
	"context"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// Authenticator defines the interface for identity-provider implementations.
// This abstraction allows swapping between different auth methods (password,
// OAuth, etc.) without changing the service layer code. The rest of the
// system only ever sees the opaque user ID the authenticator produces.
type Authenticator interface {
	// Register creates a new user account with the given username and
	// credential. Returns the created user or an error if registration
	// fails.
	Register(ctx context.Context, username, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the
	// implementation's requirements (length, format, etc.).
	ValidateCredential(credential string) error
}
