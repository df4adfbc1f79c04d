package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

// loadedAtLayout is fixed width so loaded_at sorts chronologically as text.
const loadedAtLayout = "2006-01-02T15:04:05.000000Z"

type ImportHistoryRepository struct {
	db *sql.DB
}

func NewImportHistoryRepository(db *sql.DB) *ImportHistoryRepository {
	return &ImportHistoryRepository{db: db}
}

func (r *ImportHistoryRepository) Record(ctx context.Context, rec domain.ImportRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_history (id, source, users, conversations, messages, projects, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Source, rec.Users, rec.Conversations, rec.Messages, rec.Projects,
		rec.LoadedAt.UTC().Format(loadedAtLayout))
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

func (r *ImportHistoryRepository) List(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, users, conversations, messages, projects, loaded_at
		FROM import_history
		ORDER BY loaded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var records []domain.ImportRecord
	for rows.Next() {
		var rec domain.ImportRecord
		var loadedAt string
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Users, &rec.Conversations, &rec.Messages, &rec.Projects, &loadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		rec.LoadedAt, _ = time.Parse(loadedAtLayout, loadedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
