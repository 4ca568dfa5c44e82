// Package infrastructure wires up the process-wide logging setup: a slog
// logger configured from config.LoggingConfig plus trace-ID propagation
// through context so every record of one run can be correlated.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"szncli/internal/config"
)

var (
	mu        sync.Mutex
	appLogger *slog.Logger
	logFile   *os.File
)

// InitializeLogger builds the application logger from cfg, installs it as the
// slog default and returns it. Repeated calls return the logger built first.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if appLogger != nil {
		return appLogger, nil
	}

	writer, file, err := buildWriter(cfg)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLevel(cfg.Level),
	}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	logFile = file
	appLogger = slog.New(traceIDHandler{next: handler})
	slog.SetDefault(appLogger)
	return appLogger, nil
}

// CloseLogFile flushes and closes the log file when one is open. Call on
// shutdown.
func CloseLogFile() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func activeLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if appLogger == nil {
		return slog.Default()
	}
	return appLogger
}

// resetLogging tears down the global state so tests can initialize again.
func resetLogging() {
	_ = CloseLogFile()
	mu.Lock()
	appLogger = nil
	mu.Unlock()
}

// buildWriter maps cfg.Output to a destination. "file" writes only to
// cfg.FilePath, "both" duplicates to stdout, anything else is stdout only.
// The returned file is non-nil only when one was opened.
func buildWriter(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.FilePath, err)
		}
		if strings.EqualFold(cfg.Output, "both") {
			return io.MultiWriter(os.Stdout, file), file, nil
		}
		return file, file, nil
	default:
		return os.Stdout, nil, nil
	}
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

// traceIDHandler decorates every record with the trace ID carried by the
// logging context, keeping call sites free of the bookkeeping.
type traceIDHandler struct {
	next slog.Handler
}

func (h traceIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h traceIDHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := TraceIDFrom(ctx); id != "" {
		rec.AddAttrs(slog.String("trace_id", id))
	}
	return h.next.Handle(ctx, rec)
}

func (h traceIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceIDHandler{next: h.next.WithAttrs(attrs)}
}

func (h traceIDHandler) WithGroup(name string) slog.Handler {
	return traceIDHandler{next: h.next.WithGroup(name)}
}
