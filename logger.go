package batch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for batch. By default nothing is logged.
// Pass nil to restore silent behavior.
//
// Renderers created after the call pass the logger on to their device when
// the device accepts one. SetLogger is safe for concurrent use.
//
// Log levels used by batch and its devices:
//   - [slog.LevelDebug]: buffer resizes, flush sizes
//   - [slog.LevelInfo]: adapter selection, window lifecycle
//   - [slog.LevelWarn]: shader fallbacks, resource release errors
//
// Example:
//
//	batch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by batch. Sub-packages call this
// to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
