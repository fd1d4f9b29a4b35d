package clutter

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/phanxgames/clutter/cogl"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by clutter and by the cogl package.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels:
//   - [slog.LevelDebug]: frame budget overruns, per-dispatch stats when
//     [Config.Debug] is set
//   - [slog.LevelWarn]: marker misuse, invalid progress settings
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	cogl.SetLogger(l.With("pkg", "cogl"))
}

// Logger returns the current clutter logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
