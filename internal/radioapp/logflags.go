package radioapp

import "github.com/edward-ap/radiostream/internal/player"

// SetTraceLogEnabled toggles libVLC file logging. Call it before New so the
// engine sees the flag during Init.
func SetTraceLogEnabled(b bool) { player.SetTraceLoggingEnabled(b) }
