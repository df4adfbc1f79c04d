package migrate

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/tursodatabase/go-libsql"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"001_first.down.sql":  {Data: []byte("DROP TABLE a")},
		"README.md":           {Data: []byte("ignored")},
		"003_broken.down.sql": {Data: []byte("orphan down file is ignored")},
	}

	got, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[0].DownSQL != "DROP TABLE a" {
		t.Errorf("unexpected first migration: %+v", got[0])
	}
	if got[1].Version != 2 || got[1].DownSQL != "" {
		t.Errorf("unexpected second migration: %+v", got[1])
	}
}

func TestLoad_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.up.sql": {Data: []byte("SELECT 1")},
		"1_b.up.sql":   {Data: []byte("SELECT 1")},
	}
	if _, err := Load(fsys); err == nil {
		t.Fatal("expected duplicate version error")
	}
}

func TestSplitSQL(t *testing.T) {
	got := SplitSQL("CREATE TABLE a (x);\n\n  ;DROP TABLE b;  ")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x)" || got[1] != "DROP TABLE b" {
		t.Errorf("SplitSQL() = %q", got)
	}
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	var out bytes.Buffer
	m, err := New(db, &out)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.Up(ctx); err != nil {
		t.Fatalf("Up() error = %v", err)
	}

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Current != st.Latest || len(st.Pending) != 0 || st.Dirty {
		t.Errorf("unexpected status after Up: %+v", st)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO preferences (key, value) VALUES ('theme', 'dark')`); err != nil {
		t.Fatalf("preferences table missing: %v", err)
	}

	out.Reset()
	if err := m.Up(ctx); err != nil {
		t.Fatalf("second Up() error = %v", err)
	}
	if out.String() != "No migrations to run\n" {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := m.DownTo(ctx, 0); err != nil {
		t.Fatalf("DownTo(0) error = %v", err)
	}
	version, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("expected version 0 clean, got %d dirty=%v", version, dirty)
	}
	if _, err := db.ExecContext(ctx, `SELECT 1 FROM preferences`); err == nil {
		t.Error("expected preferences table to be dropped")
	}
}

func TestMigrator_UpTo(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	m, err := New(db, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.UpTo(ctx, 1); err != nil {
		t.Fatalf("UpTo(1) error = %v", err)
	}

	st, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Current != 1 {
		t.Errorf("expected version 1, got %d", st.Current)
	}
	if len(st.Pending) != st.Latest-1 {
		t.Errorf("expected %d pending, got %d", st.Latest-1, len(st.Pending))
	}
}

func TestRunAll_RefusesDirty(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	if err := EnsureMigrationsTable(ctx, db); err != nil {
		t.Fatalf("EnsureMigrationsTable() error = %v", err)
	}
	if err := SetVersion(ctx, db, 1, true); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	if err := RunAll(ctx, db); err == nil {
		t.Fatal("expected dirty state error")
	}
}
