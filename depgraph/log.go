package depgraph

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu      sync.RWMutex
	defaultLogger = zerolog.New(os.Stderr).With().
			Timestamp().
			Str("component", "depgraph").
			Logger()
)

// SetLogger replaces the package logger used for teardown warnings.
// Individual scopes can override it with WithScopeLogger.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = l
}

func packageLogger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}
