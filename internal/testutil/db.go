// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"tasklist-api/internal/repository"
	"tasklist-api/pkg/database"
)

// NewDB opens a fresh SQLite database in a temp dir with the schema applied.
func NewDB(t testing.TB) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := repository.CreateTableIfNotExists(ctx, db); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
	return db
}
