// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"devconnect/internal/models"
)

var logger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used by RepoLogger and ServiceLogger.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func current() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

func (l *RepoLogger) log(ctx context.Context, operation string, fields map[string]any) {
	attrs := []any{
		slog.String("table", l.tableName),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	current().DebugContext(ctx, "repository "+operation, attrs...)
}

// LogRead logs a repository read operation.
func (l *RepoLogger) LogRead(ctx context.Context, fields map[string]any) {
	l.log(ctx, "read", fields)
}

// LogSave logs a repository save operation.
func (l *RepoLogger) LogSave(ctx context.Context, fields map[string]any) {
	l.log(ctx, "save", fields)
}

// LogDelete logs a repository delete operation.
func (l *RepoLogger) LogDelete(ctx context.Context, fields map[string]any) {
	l.log(ctx, "delete", fields)
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	current().ErrorContext(ctx, "repository error",
		slog.String("table", l.tableName),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// LogServiceCall logs a completed service method call. Rejections the caller
// caused are logged at info; failures that map to a 5xx at error.
func LogServiceCall(ctx context.Context, service, method string, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("service", service),
		slog.String("method", method),
		slog.Duration("elapsed", elapsed),
	}
	if err == nil {
		current().DebugContext(ctx, "service call", attrs...)
		return
	}

	attrs = append(attrs, slog.String("error", err.Error()))
	if code := models.ErrorCode(err); code != "" {
		attrs = append(attrs, slog.String("code", code))
	}
	if models.StatusFor(err) >= 500 {
		current().ErrorContext(ctx, "service call failed", attrs...)
		return
	}
	current().InfoContext(ctx, "service call rejected", attrs...)
}
