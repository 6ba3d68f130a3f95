package logger

import "context"

// contextKey keeps our context values invisible to other packages.
type contextKey int

const (
	requestIDKey contextKey = iota
	runIDKey
)

// WithRequestID stamps ctx with the HTTP request identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID reads the request identifier, or "" when unset.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRunID stamps ctx with a script-run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID reads the script-run identifier, or "" when unset.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
