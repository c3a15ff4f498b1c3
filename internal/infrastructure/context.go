package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey keeps run-scoped context values from colliding with keys set
// by other packages.
type contextKey string

// RunIDContextKey carries the pipeline run ID.
const RunIDContextKey contextKey = "run_id"

// GenerateRunID returns a fresh UUID identifying one cleaning run.
func GenerateRunID() string {
	return uuid.New().String()
}

// WithRunID stores the run ID on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

// GetRunID returns the run ID from the context, or "" when none was set.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDContextKey).(string); ok {
		return runID
	}
	return ""
}

// ContextWithRunID attaches a newly generated run ID.
func ContextWithRunID(ctx context.Context) context.Context {
	return WithRunID(ctx, GenerateRunID())
}

// EnsureRunID attaches a run ID only when the context has none, so callers
// can pass through IDs minted upstream.
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) == "" {
		return ContextWithRunID(ctx)
	}
	return ctx
}

// LoggerWithContext returns the process logger with the context's run ID
// bound. Pipeline stages obtain their logger through this.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

// InfoContext logs at info level through the context-bound logger.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).InfoContext(ctx, msg, args...)
}

// WarnContext logs at warn level through the context-bound logger.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).WarnContext(ctx, msg, args...)
}

// ErrorContext logs at error level through the context-bound logger.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).ErrorContext(ctx, msg, args...)
}

// DebugContext logs at debug level through the context-bound logger.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).DebugContext(ctx, msg, args...)
}

// WithComponent binds a component name to the logger.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithError binds the error to the logger. A nil error passes the logger
// through unchanged.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}

// WithFields binds a map of fields to the logger.
func WithFields(logger *slog.Logger, fields map[string]any) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}
