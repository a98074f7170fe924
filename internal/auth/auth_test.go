package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// memoryUserStorage is an in-memory UserStorage for tests.
type memoryUserStorage struct {
	byUsername map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{byUsername: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, exists := m.byUsername[user.Username]; exists {
		return &models.ConflictError{Reason: "username already in use"}
	}
	m.byUsername[user.Username] = user
	return nil
}

func (m *memoryUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, &models.NotFoundError{Entity: "user"}
}

func (m *memoryUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, &models.NotFoundError{Entity: "user", ID: id}
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()

	t.Run("register then authenticate", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())

		user, err := a.Register(ctx, "alice", "correct horse battery")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.ID == "" {
			t.Error("expected user ID to be generated")
		}
		if user.PasswordHash == "correct horse battery" {
			t.Error("password must not be stored in the clear")
		}

		got, err := a.Authenticate(ctx, "alice", "correct horse battery")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())
		if _, err := a.Register(ctx, "bob", "super secret pw"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if _, err := a.Authenticate(ctx, "bob", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := a.Authenticate(ctx, "nobody", "super secret pw"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())
		if _, err := a.Register(ctx, "carol", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		a := NewPasswordAuthenticator(newMemoryUserStorage())
		if _, err := a.Register(ctx, "dave", "password one"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := a.Register(ctx, "dave", "password two"); !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Username: "alice"}

	t.Run("generate and validate round trip", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("UserID mismatch: got %s, want %s", claims.UserID, user.ID)
		}
		if claims.Username != user.Username {
			t.Errorf("Username mismatch: got %s, want %s", claims.Username, user.Username)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		m := NewJWTManager("test-secret", -time.Minute)

		token, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		issuer := NewJWTManager("secret-a", time.Hour)
		verifier := NewJWTManager("secret-b", time.Hour)

		token, err := issuer.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		m := NewJWTManager("test-secret", time.Hour)
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
