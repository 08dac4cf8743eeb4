package bridge

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the bridge package's logger. It is a no-op logger by
// default; set one with SetLogger to observe instantiation and call
// diagnostics.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the bridge package's logger. Call before creating
// any Instance.
func SetLogger(l *zap.Logger) {
	logger = l
}
