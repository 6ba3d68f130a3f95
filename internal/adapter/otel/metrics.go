// Package otel provides OpenTelemetry instrumentation for DevDeck. Only the
// API surface is used; wiring an exporter is a deployment concern.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "devdeck"

// Metrics holds all DevDeck metric instruments. A nil *Metrics is valid and
// records nothing, so call sites never branch on telemetry being enabled.
type Metrics struct {
	Commands        metric.Int64Counter
	CommandDuration metric.Float64Histogram
	Scans           metric.Int64Counter
	ScanDuration    metric.Float64Histogram
	ScriptRuns      metric.Int64Counter
	WSClients       metric.Int64UpDownCounter
}

// NewMetrics creates all metric instruments from the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Commands, err = meter.Int64Counter("devdeck.commands",
		metric.WithDescription("Number of external commands invoked"))
	if err != nil {
		return nil, err
	}

	m.CommandDuration, err = meter.Float64Histogram("devdeck.command.duration_seconds",
		metric.WithDescription("External command duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.Scans, err = meter.Int64Counter("devdeck.scans",
		metric.WithDescription("Number of project scans"))
	if err != nil {
		return nil, err
	}

	m.ScanDuration, err = meter.Float64Histogram("devdeck.scan.duration_seconds",
		metric.WithDescription("Project scan duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.ScriptRuns, err = meter.Int64Counter("devdeck.script.runs",
		metric.WithDescription("Number of project script executions"))
	if err != nil {
		return nil, err
	}

	m.WSClients, err = meter.Int64UpDownCounter("devdeck.ws.clients",
		metric.WithDescription("Connected WebSocket clients"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCommand records one external command invocation.
func (m *Metrics) RecordCommand(ctx context.Context, name, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("command.name", name),
		attribute.String("command.outcome", outcome),
	)
	m.Commands.Add(ctx, 1, attrs)
	m.CommandDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordScan records one registry scan.
func (m *Metrics) RecordScan(ctx context.Context, projects int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Scans.Add(ctx, 1, metric.WithAttributes(attribute.Int("scan.projects", projects)))
	m.ScanDuration.Record(ctx, elapsed.Seconds())
}

// RecordScriptRun records one project script execution.
func (m *Metrics) RecordScriptRun(ctx context.Context, action, outcome string) {
	if m == nil {
		return
	}
	m.ScriptRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("script.action", action),
		attribute.String("script.outcome", outcome),
	))
}

// AddWSClient adjusts the connected WebSocket client gauge.
func (m *Metrics) AddWSClient(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WSClients.Add(ctx, delta)
}
