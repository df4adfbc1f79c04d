package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/exportview/internal/archive"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/ports"
)

// ErrNoSnapshot is returned when an operation needs a loaded archive and none is.
var ErrNoSnapshot = errors.New("no archive loaded")

// Service loads archives and publishes the derived views as immutable snapshots.
// It is safe for concurrent use; the last successful load wins.
type Service struct {
	loader   *archive.Loader
	exporter ports.MetricsExporter
	history  ports.ImportHistoryRepository
	logger   Logger

	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// NewService creates a new analytics service
func NewService(loader *archive.Loader, exporter ports.MetricsExporter, logger Logger) *Service {
	if loader == nil {
		loader = archive.NewLoader(0)
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Service{
		loader:   loader,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

// WithHistory makes the service remember every successful load in h.
func (s *Service) WithHistory(h ports.ImportHistoryRepository) *Service {
	s.history = h
	return s
}

// Load reads a and replaces the current snapshot. On failure the previous
// snapshot stays in place.
func (s *Service) Load(ctx context.Context, a archive.Archive) (*Snapshot, error) {
	return s.load(ctx, "archive", a)
}

// LoadFile opens a zip file or extracted export directory and loads it.
func (s *Service) LoadFile(ctx context.Context, path string) (*Snapshot, error) {
	f, err := archive.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.load(ctx, path, f)
}

// LoadBytes loads an in-memory zip, as received from an upload.
func (s *Service) LoadBytes(ctx context.Context, name string, data []byte) (*Snapshot, error) {
	a, err := archive.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, name, a)
}

// Current returns the published snapshot, if any.
func (s *Service) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// Reset drops the published snapshot.
func (s *Service) Reset() {
	s.current.Store(nil)
}

func (s *Service) load(ctx context.Context, source string, a archive.Archive) (*Snapshot, error) {
	started := s.now()
	s.logger.Debug(fmt.Sprintf("Loading archive %s", source))

	export, err := s.loader.Load(ctx, a)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to load archive %s: %v", source, err))
		return nil, err
	}

	snap, err := buildSnapshot(export)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to load archive: %w", err)
	}

	snap.Source = source
	snap.LoadedAt = s.now()
	s.current.Store(snap)

	s.logger.Info(fmt.Sprintf("Loaded %s: %d users, %d conversations, %d projects",
		source, len(export.Users), len(export.Conversations), len(export.Projects)))
	s.export(ctx, snap, snap.LoadedAt.Sub(started))
	s.record(ctx, snap)

	return snap, nil
}

func (s *Service) export(ctx context.Context, snap *Snapshot, took time.Duration) {
	if s.exporter == nil {
		return
	}

	m := &ports.SnapshotMetrics{
		SnapshotID:      snap.ID,
		Source:          snap.Source,
		Users:           int64(snap.Overview.Users),
		Conversations:   int64(snap.Overview.Conversations),
		Messages:        int64(snap.Overview.Messages),
		Projects:        int64(snap.Overview.Projects),
		ThinkingBlocks:  int64(snap.Overview.ThinkingBlocks),
		ToolInvocations: int64(snap.Overview.ToolInvocations),
		LoadDuration:    took,
		LoadedAt:        snap.LoadedAt,
	}
	for _, t := range snap.Tools {
		m.Tools = append(m.Tools, ports.ToolCount{Name: t.Name, Count: int64(t.Count)})
	}

	// Metrics are best effort; a failed export never fails the load.
	if err := s.exporter.ExportSnapshot(ctx, m); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to export metrics: %v", err))
	}
}

func (s *Service) record(ctx context.Context, snap *Snapshot) {
	if s.history == nil {
		return
	}

	err := s.history.Record(ctx, domain.ImportRecord{
		ID:            snap.ID,
		Source:        snap.Source,
		Users:         snap.Overview.Users,
		Conversations: snap.Overview.Conversations,
		Messages:      snap.Overview.Messages,
		Projects:      snap.Overview.Projects,
		LoadedAt:      snap.LoadedAt,
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to record import: %v", err))
	}
}

// buildSnapshot computes every view of export. The views are independent
// pure functions, so they run concurrently.
func buildSnapshot(export *domain.Export) (*Snapshot, error) {
	snap := &Snapshot{
		ID:     uuid.NewString(),
		Export: export,
	}

	var g errgroup.Group
	g.Go(func() error {
		snap.Users = ComputeUserStats(export.Users, export.Conversations)
		return nil
	})
	g.Go(func() error {
		snap.Daily = ComputeDailyActivity(export.Conversations)
		return nil
	})
	g.Go(func() error {
		snap.Tools = ComputeToolUsage(export.Conversations)
		return nil
	})
	g.Go(func() error {
		snap.Conversations = ComputeConversationDetails(export.Conversations, export.Users)
		return nil
	})
	g.Go(func() error {
		snap.Overview = ComputeOverview(export)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute views: %w", err)
	}

	snap.index()
	return snap, nil
}
