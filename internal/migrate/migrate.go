// Package migrate applies the embedded schema migrations to the preference store.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/exportview/migrations"
)

// Migration represents a single database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Status describes where the schema stands relative to the embedded migrations.
type Status struct {
	Current int
	Latest  int
	Dirty   bool
	Pending []Migration
}

// Migrator runs migrations against db and reports progress to out.
type Migrator struct {
	db         *sql.DB
	out        io.Writer
	migrations []Migration
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// New loads the embedded migrations. A nil out discards progress output.
func New(db *sql.DB, out io.Writer) (*Migrator, error) {
	all, err := Load(migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if out == nil {
		out = io.Discard
	}
	return &Migrator{db: db, out: out, migrations: all}, nil
}

// Load reads every NNN_name.up.sql file in fsys, pairs it with its down
// file if any, and returns them sorted by version.
func Load(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(path.Base(p))
		if matches == nil {
			return nil
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("invalid migration version in %s: %w", p, err)
		}

		upSQL, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		downPath := path.Join(path.Dir(p), matches[1]+"_"+matches[2]+".down.sql")
		downSQL, err := fs.ReadFile(fsys, downPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", downPath, err)
		}

		result = append(result, Migration{
			Version: version,
			Name:    matches[2],
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(result); i++ {
		if result[i].Version == result[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", result[i].Version)
		}
	}
	return result, nil
}

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version, dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

// SetVersion sets the migration version and dirty state.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version <= 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
	return err
}

// Status reports the current version and the migrations still to apply.
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	if err := EnsureMigrationsTable(ctx, m.db); err != nil {
		return Status{}, fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, dirty, err := GetCurrentVersion(ctx, m.db)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get current version: %w", err)
	}

	st := Status{Current: current, Dirty: dirty}
	for _, mig := range m.migrations {
		st.Latest = max(st.Latest, mig.Version)
		if mig.Version > current {
			st.Pending = append(st.Pending, mig)
		}
	}
	return st, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.UpTo(ctx, 0)
}

// UpTo applies pending migrations up to and including target. A zero
// target means the latest version.
func (m *Migrator) UpTo(ctx context.Context, target int) error {
	st, err := m.Status(ctx)
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("database is in dirty state at version %d", st.Current)
	}

	count := 0
	for _, mig := range st.Pending {
		if target > 0 && mig.Version > target {
			break
		}
		if err := m.run(ctx, mig, true); err != nil {
			return err
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(m.out, "No migrations to run")
		return nil
	}
	version, _, _ := GetCurrentVersion(ctx, m.db)
	fmt.Fprintf(m.out, "Migrated to version %d (%d migrations applied)\n", version, count)
	return nil
}

// DownTo reverts applied migrations until the schema is at target.
func (m *Migrator) DownTo(ctx context.Context, target int) error {
	st, err := m.Status(ctx)
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("database is in dirty state at version %d", st.Current)
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if mig.Version > st.Current {
			continue
		}
		if mig.Version <= target {
			break
		}
		if mig.DownSQL == "" {
			return fmt.Errorf("no down migration for version %d", mig.Version)
		}
		if err := m.run(ctx, mig, false); err != nil {
			return err
		}
	}

	fmt.Fprintf(m.out, "Migrated to version %d\n", target)
	return nil
}

func (m *Migrator) run(ctx context.Context, mig Migration, up bool) error {
	direction := "up"
	content := mig.UpSQL
	target := mig.Version
	if !up {
		direction = "down"
		content = mig.DownSQL
		target = mig.Version - 1
	}

	fmt.Fprintf(m.out, "  %s %03d_%s...\n", direction, mig.Version, mig.Name)

	if err := SetVersion(ctx, m.db, mig.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(content) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w", mig.Version, direction, err)
		}
	}

	if err := SetVersion(ctx, m.db, target, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// SplitSQL splits a SQL script into its non-empty statements.
func SplitSQL(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// RunAll silently applies all pending migrations on db.
func RunAll(ctx context.Context, db *sql.DB) error {
	m, err := New(db, nil)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}
