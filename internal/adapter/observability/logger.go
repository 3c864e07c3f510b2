// Package observability provides logging, metrics, and tracing.
//
// It integrates with OpenTelemetry for tracing and Prometheus for metrics,
// and configures the process-wide slog JSON logger.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/emarketbank/jimmy-agent/internal/config"
)

// SetupLogger configures a JSON slog logger with environment fields.
func SetupLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	// In dev, show debug level; in prod, default to info
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(h).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
	return logger
}

type loggerKey struct{}
type requestIDKey struct{}

// ContextWithLogger returns a context carrying a request-scoped logger.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, lg)
}

// LoggerFromContext extracts the request-scoped logger, or the default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(loggerKey{}); v != nil {
		if lg, ok := v.(*slog.Logger); ok {
			return lg
		}
	}
	return slog.Default()
}

// ContextWithRequestID returns a context carrying the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request id, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
