package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// The bridge logs through one process-wide zap logger, silent until a host
// hands one over. Lifecycle traces are gated separately so an attached
// logger does not also turn on the chatty paths.
var (
	logger  atomic.Pointer[zap.Logger]
	tracing atomic.Bool
)

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the bridge logger. Before SetLogger runs it is a no-op.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l as the bridge logger; nil restores the silent
// default. Safe to call at any point, including while interpreters run.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// SetDebug switches the lifecycle traces written through debugf on or off.
func SetDebug(enabled bool) {
	tracing.Store(enabled)
}

func debugf(format string, args ...any) {
	if tracing.Load() {
		Logger().Sugar().Debugf(format, args...)
	}
}
