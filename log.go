package framearena

import (
	"golang.org/x/exp/slog"

	"github.com/pavanmanishd/framearena/internal/xlog"
)

// SetLogger enables logging for framearena and its sub-packages. Logging
// is off until a logger is installed; pass nil to turn it off again.
func SetLogger(l *slog.Logger) {
	xlog.Set(l)
}

// LogStats logs the arena's memory accounting at info level.
func (a *Arena) LogStats(msg string) {
	xlog.L().Info(msg, "arena", a.Stats())
}
