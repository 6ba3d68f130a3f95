package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "devdeck"

// StartCommandSpan starts a span for one external command invocation.
func StartCommandSpan(ctx context.Context, name, dir string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "command",
		trace.WithAttributes(
			attribute.String("command.name", name),
			attribute.String("command.dir", dir),
		),
	)
}

// StartScanSpan starts a span for a registry scan.
func StartScanSpan(ctx context.Context, root string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "scan",
		trace.WithAttributes(
			attribute.String("scan.root", root),
		),
	)
}

// StartScriptSpan starts a span for a project script execution.
func StartScriptSpan(ctx context.Context, project, action string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "script",
		trace.WithAttributes(
			attribute.String("script.project", project),
			attribute.String("script.action", action),
		),
	)
}
