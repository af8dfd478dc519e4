// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the HTTP middleware, so
// every line a handler writes carries the request id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("book updated", "book_id", id)
//	// → time=... level=INFO msg="book updated" request_id=5f0c... book_id=3
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// L is the process-wide base logger. Setup replaces it.
var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Options controls the base logger.
type Options struct {
	Env    string // "production" selects JSON output
	Level  string // debug, info, warn, error
	Writer io.Writer
}

// Setup builds the base logger from opts, installs it as L and as the slog
// default, and returns it.
func Setup(opts Options) *slog.Logger {
	return Install(NewHandler(opts))
}

// NewHandler returns the stdout handler Setup would install.
func NewHandler(opts Options) slog.Handler {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	switch strings.ToLower(opts.Env) {
	case "production", "prod":
		return slog.NewJSONHandler(w, hopts)
	default:
		return slog.NewTextHandler(w, hopts)
	}
}

// Install makes h the base handler.
func Install(h slog.Handler) *slog.Logger {
	L = slog.New(h)
	slog.SetDefault(L)
	return L
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
