package tide

import (
	"context"
	"log/slog"
)

// Logging here follows kluzzebass-gastrolog's internal/logging package:
// dependency-injected, never global, discard-by-default, and scoped once at
// construction via logger.With(...). LogWriter logs only at lifecycle
// boundaries (chunk open/close, finalize) and never per-entry.

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

// defaultLogger returns logger if non-nil, otherwise a discard logger.
func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return discardLogger()
}
