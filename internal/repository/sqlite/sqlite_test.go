package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LOUBNATANASSA/project-tasks/internal/model"
)

// newTestDB creates a fresh in-memory database for each test.
// ":memory:" means nothing touches disk and each test gets a completely
// isolated schema — no cleanup needed, the DB vanishes on Close.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser inserts a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlookslikeone1234567890abcd",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestProject inserts a project owned by userID.
func createTestProject(t *testing.T, db *DB, userID, title string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:       title,
		Description: "a test project",
		UserID:      userID,
	}
	if err := db.Projects().Create(context.Background(), project); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// createTestTask inserts a task under projectID.
func createTestTask(t *testing.T, db *DB, projectID, title string) *model.Task {
	t.Helper()
	task := &model.Task{
		Title:     title,
		DueDate:   "2026-12-31",
		ProjectID: projectID,
	}
	if err := db.Tasks().Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// =========================================================================
// CONNECTION POOL TESTS
// =========================================================================

// TestNew_ForeignKeysOnEveryPoolConnection guards the cascade behaviour
// on a file-backed database. The foreign_keys pragma is per-connection
// in SQLite, so it must live in the DSN: a one-time Exec would arm only
// one pooled connection, and a delete running on any other connection
// would leave orphan rows behind. Zero idle connections force every
// statement in this test onto a brand-new pool connection.
func TestNew_ForeignKeysOnEveryPoolConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "pool.db"))
	if err != nil {
		t.Fatalf("failed to create file-backed DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.conn.SetMaxIdleConns(0)

	user := createTestUser(t, db, "Ana", "ana@x.com")
	project := createTestProject(t, db, user.ID, "learn go")
	createTestTask(t, db, project.ID, "task one")
	createTestTask(t, db, project.ID, "task two")

	// A fresh connection must report foreign_keys = 1.
	var enabled int
	if err := db.conn.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		t.Fatalf("reading foreign_keys pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d on a fresh pool connection, want 1", enabled)
	}

	// The delete lands on yet another fresh connection; the cascade must
	// still fire there.
	if err := db.Projects().Delete(context.Background(), project.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	tasks, err := db.Tasks().ListByProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("ListByProject() after delete: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("cascade left %d orphan task(s) after project delete", len(tasks))
	}
}
