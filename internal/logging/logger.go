// Package logging configures log/slog for the contacts manager.
//
// Loggers obtained through FromContext carry chi's request ID so every entry
// written while serving a request can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs the default slog logger writing to stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger for w without touching the default logger.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns the default logger, tagged with the request ID when
// ctx belongs to a request that went through chi's RequestID middleware.
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("person deleted", "person_id", id)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns a request-scoped logger with additional fields.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

// Timed logs the start of op at debug level and returns a function that logs
// its completion with the elapsed time. Pass the operation's error to the
// returned function; a non-nil error is logged at warn level.
//
//	done := logging.Timed(ctx, "filter persons", "search_by", field)
//	persons, err := repo.GetFilteredPersons(ctx, filter)
//	done(err)
func Timed(ctx context.Context, op string, args ...any) func(error) {
	logger := WithFields(ctx, append([]any{"op", op}, args...)...)
	start := time.Now()
	logger.Debug("operation started")

	return func(err error) {
		elapsed := time.Since(start)
		if err != nil {
			logger.Warn("operation failed", "duration", elapsed, "error", err)
			return
		}
		logger.Debug("operation finished", "duration", elapsed)
	}
}
