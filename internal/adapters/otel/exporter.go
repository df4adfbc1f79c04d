package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/exportview/internal/ports"
)

const (
	serviceName    = "exportview"
	serviceVersion = "1.0.0"
)

// Exporter exports archive load metrics to an OTEL Collector.
type Exporter struct {
	provider *sdkmetric.MeterProvider
	inst     instruments
}

type instruments struct {
	loadsTotal         metric.Int64Counter
	loadDuration       metric.Float64Histogram
	usersTotal         metric.Int64Counter
	conversationsTotal metric.Int64Counter
	messagesTotal      metric.Int64Counter
	thinkingTotal      metric.Int64Counter
	toolCallsTotal     metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	inst, err := newInstruments(provider.Meter(serviceName))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	return &Exporter{provider: provider, inst: inst}, nil
}

func newInstruments(meter metric.Meter) (instruments, error) {
	var (
		inst instruments
		err  error
	)

	counter := func(name, desc, unit string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			err = fmt.Errorf("creating %s: %w", name, err)
		}
		return c
	}

	inst.loadsTotal = counter("exportview_loads_total", "Total number of archive loads", "{load}")
	inst.usersTotal = counter("exportview_users_total", "Users found in loaded archives", "{user}")
	inst.conversationsTotal = counter("exportview_conversations_total", "Conversations found in loaded archives", "{conversation}")
	inst.messagesTotal = counter("exportview_messages_total", "Messages found in loaded archives", "{message}")
	inst.thinkingTotal = counter("exportview_thinking_blocks_total", "Thinking blocks found in loaded archives", "{block}")
	inst.toolCallsTotal = counter("exportview_tool_calls_total", "Tool invocations found in loaded archives", "{call}")
	if err != nil {
		return instruments{}, err
	}

	inst.loadDuration, err = meter.Float64Histogram(
		"exportview_load_duration_seconds",
		metric.WithDescription("Archive load duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("creating duration histogram: %w", err)
	}

	return inst, nil
}

// ExportSnapshot records the metrics of one archive load.
func (e *Exporter) ExportSnapshot(ctx context.Context, m *ports.SnapshotMetrics) error {
	e.inst.record(ctx, m)
	return nil
}

func (inst instruments) record(ctx context.Context, m *ports.SnapshotMetrics) {
	opt := metric.WithAttributes(attribute.String("source", m.Source))

	inst.loadsTotal.Add(ctx, 1, opt)
	inst.loadDuration.Record(ctx, m.LoadDuration.Seconds(), opt)
	inst.usersTotal.Add(ctx, m.Users, opt)
	inst.conversationsTotal.Add(ctx, m.Conversations, opt)
	inst.messagesTotal.Add(ctx, m.Messages, opt)
	inst.thinkingTotal.Add(ctx, m.ThinkingBlocks, opt)

	for _, t := range m.Tools {
		inst.toolCallsTotal.Add(ctx, t.Count, metric.WithAttributes(
			attribute.String("source", m.Source),
			attribute.String("tool_name", t.Name),
		))
	}
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
