package avif

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger installs the logger used for failure diagnostics. The default discards everything.
// It is safe to call while sessions are in use on other goroutines.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// Logger returns the logger installed with SetLogger.
func Logger() zerolog.Logger {
	return *logger.Load()
}

func log() *zerolog.Logger {
	return logger.Load()
}
