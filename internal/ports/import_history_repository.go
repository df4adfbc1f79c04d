package ports

import (
	"context"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

type ImportHistoryRepository interface {
	Record(ctx context.Context, rec domain.ImportRecord) error
	// List returns the most recent imports first.
	List(ctx context.Context, limit int) ([]domain.ImportRecord, error)
}
