package turso_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/emiliopalmerini/exportview/internal/adapters/turso"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := turso.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "exportview.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
