package geocode

import "sync/atomic"

var debugLogging atomic.Bool

// SetDebugLogging enables or disables logging of swallowed lookup failures.
func SetDebugLogging(enabled bool) {
	debugLogging.Store(enabled)
}

func isDebugLogging() bool {
	return debugLogging.Load()
}
