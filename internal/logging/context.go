package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const (
	runIDKey contextKey = iota
)

// GenerateRunID creates a new time-ordered run ID.
func GenerateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithRunID returns a new context carrying the given run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// NewRunContext derives a context with a freshly generated run ID.
func NewRunContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return WithRunID(parent, GenerateRunID())
}

// RunIDFromContext extracts the run ID from ctx, or "" when none is set.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns the default logger annotated with the run ID
// from ctx, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if runID := RunIDFromContext(ctx); runID != "" {
		logger = logger.With(KeyRunID, runID)
	}
	return logger
}

// ContextLogger binds a logger to a context.
type ContextLogger struct {
	ctx    context.Context
	logger *slog.Logger
}

// FromContext creates a ContextLogger from a context.
func FromContext(ctx context.Context) *ContextLogger {
	return &ContextLogger{
		ctx:    ctx,
		logger: LoggerFromContext(ctx),
	}
}

// With returns a new ContextLogger with additional attributes.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		ctx:    cl.ctx,
		logger: cl.logger.With(args...),
	}
}

// Info logs at INFO level.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Debug logs at DEBUG level.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Warn logs at WARN level.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs at ERROR level.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// RunID returns the run ID from the logger's context.
func (cl *ContextLogger) RunID() string {
	return RunIDFromContext(cl.ctx)
}
