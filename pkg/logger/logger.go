// Package logger provides the structured, levelled logger used across Dukaan,
// built on log/slog.
//
// Handlers are chosen from config: human-readable text in development, JSON in
// production, and an optional asynchronous MongoDB sink (LOG_SINK=mongo) fanned
// out alongside stdout for centralised log search.
//
// The key extension over plain slog is WithCtx: the Logger middleware stores a
// request-scoped logger (pre-tagged with request_id) in the context, and
// WithCtx retrieves it so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order committed", "order_id", order.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/dukaan/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	if config.Get("LOG_SINK", "") == "mongo" {
		if mh, err := NewMongoHandler(
			config.Get("MONGO_URI", "mongodb://localhost:27017"),
			config.Get("MONGO_LOG_DB", "dukaan"),
			config.Get("MONGO_LOG_COLLECTION", "logs"),
		); err == nil {
			handler = NewMultiHandler(handler, mh)
		}
		// If Mongo is unreachable we fall back to stdout only; the sink is
		// an operator convenience, never a boot dependency.
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped *slog.Logger stored in ctx by the Logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware, not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
