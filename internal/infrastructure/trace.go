package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// traceKey is the context key for the request trace ID. An unexported struct
// type keeps collisions with other packages impossible.
type traceKey struct{}

// WithTraceID returns a child context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom returns the trace ID carried by ctx, or "" when there is none.
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// ContextWithTraceID returns a child context carrying a freshly generated
// trace ID. Use at the entry point of a batch run or request.
func ContextWithTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// EnsureTraceID returns ctx unchanged when it already carries a trace ID and
// attaches a fresh one otherwise.
func EnsureTraceID(ctx context.Context) context.Context {
	if TraceIDFrom(ctx) != "" {
		return ctx
	}
	return ContextWithTraceID(ctx)
}

// LoggerFromContext returns the application logger bound to the trace ID in
// ctx, so call sites get correlated records without threading loggers around.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := activeLogger()
	if id := TraceIDFrom(ctx); id != "" {
		return logger.With(slog.String("trace_id", id))
	}
	return logger
}
