package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/storage"
	"github.com/kjkhy9/perfectplan/internal/storage/sqlite"
)

// newTestStore backs service tests with a real SQLite store so the
// transactional guarantees under test are the ones production runs on.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store storage.Store, username string) *models.User {
	t.Helper()

	user := models.NewUser(username, "not-a-real-hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}
