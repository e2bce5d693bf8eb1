package main

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// newTestStore opens the database named by TEST_DATABASE_URL with migrations
// applied, and skips the test when no database is configured. Tests isolate
// themselves through unique identities rather than a per-test schema.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})
	s := NewStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return s
}

// newTestUser syncs a fresh user with a unique identity and email.
func newTestUser(t *testing.T, s *Store) User {
	t.Helper()
	id := uuid.NewString()
	u, err := s.SyncUser(context.Background(), id, "user-"+id[:8], id[:8]+"@example.com", "Test User", "")
	if err != nil {
		t.Fatalf("syncing test user: %v", err)
	}
	return u
}

func mustCreateProject(t *testing.T, s *Store, ownerID, name string) Project {
	t.Helper()
	p, _, err := s.CreateProject(context.Background(), ownerID, name, "")
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	return p
}

func mustAddMember(t *testing.T, s *Store, projectID int64, email, addedBy string) User {
	t.Helper()
	u, _, err := s.AddProjectMember(context.Background(), projectID, email, addedBy)
	if err != nil {
		t.Fatalf("adding member: %v", err)
	}
	return u
}
