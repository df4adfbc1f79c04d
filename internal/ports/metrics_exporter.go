package ports

import (
	"context"
	"time"
)

// MetricsExporter exports archive load metrics to an external observability system.
type MetricsExporter interface {
	// ExportSnapshot records the metrics of one successful archive load.
	ExportSnapshot(ctx context.Context, m *SnapshotMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// SnapshotMetrics describes a loaded archive.
type SnapshotMetrics struct {
	SnapshotID string
	Source     string

	Users         int64
	Conversations int64
	Messages      int64
	Projects      int64

	ThinkingBlocks  int64
	ToolInvocations int64
	Tools           []ToolCount

	LoadDuration time.Duration
	LoadedAt     time.Time
}

// ToolCount is the invocation count of one tool in a snapshot.
type ToolCount struct {
	Name  string
	Count int64
}
