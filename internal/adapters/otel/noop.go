package otel

import (
	"context"

	"github.com/emiliopalmerini/exportview/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportSnapshot(ctx context.Context, m *ports.SnapshotMetrics) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}

// New returns an OTLP exporter when cfg enables one, otherwise a no-op.
func New(ctx context.Context, cfg Config) (ports.MetricsExporter, error) {
	if !cfg.Active() {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}
