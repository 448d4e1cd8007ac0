package player

import "sync/atomic"

var traceLogEnabled atomic.Bool

// SetTraceLoggingEnabled turns on libVLC file logging and per-event traces.
// It must be called before VLCEngine.Init to affect libVLC itself.
func SetTraceLoggingEnabled(enabled bool) {
	traceLogEnabled.Store(enabled)
}

func isTraceLoggingEnabled() bool {
	return traceLogEnabled.Load()
}
