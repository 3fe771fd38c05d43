// Package xlog holds the logger shared by framearena components. Logging is
// disabled until an application installs a logger.
package xlog

import (
	"context"
	"io"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

var (
	logger  atomic.Pointer[slog.Logger]
	discard = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
)

// Set installs l as the component logger. A nil logger disables logging.
func Set(l *slog.Logger) {
	logger.Store(l)
}

// L returns the component logger, never nil.
func L() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return discard
}

// Enabled reports whether level would be emitted, so callers can skip
// building expensive attributes.
func Enabled(level slog.Level) bool {
	l := logger.Load()
	return l != nil && l.Enabled(context.Background(), level)
}
