package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/emiliopalmerini/exportview/internal/adapters/turso"
	"github.com/emiliopalmerini/exportview/internal/domain"
)

func TestImportHistoryRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := turso.NewImportHistoryRepository(testDB(t))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, src := range []string{"first.zip", "second.zip", "third.zip"} {
		err := repo.Record(ctx, domain.ImportRecord{
			ID:            src,
			Source:        src,
			Users:         1,
			Conversations: i + 1,
			Messages:      10 * (i + 1),
			LoadedAt:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Record(%s) error = %v", src, err)
		}
	}

	records, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Source != "third.zip" || records[1].Source != "second.zip" {
		t.Errorf("unexpected order: %s, %s", records[0].Source, records[1].Source)
	}
	if records[0].Conversations != 3 || records[0].Messages != 30 {
		t.Errorf("unexpected counts: %+v", records[0])
	}
	if !records[0].LoadedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("unexpected LoadedAt: %v", records[0].LoadedAt)
	}
}

func TestImportHistoryRepository_ListEmpty(t *testing.T) {
	records, err := turso.NewImportHistoryRepository(testDB(t)).List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
