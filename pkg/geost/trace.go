package geost

import (
	"log"
	"os"
	"sync/atomic"
)

// Opt-in tracing of sweeps and frame maintenance. Set env var
// GOKANGEOST_TRACE=1 to trace every constraint in the process, or
// Config.Trace to trace a single one.

var traceEnabled atomic.Bool

func init() {
	if os.Getenv("GOKANGEOST_TRACE") == "1" {
		traceEnabled.Store(true)
	}
}

// tracer is the per-constraint switch. Its zero value follows the env var
// only.
type tracer bool

func (t tracer) printf(format string, args ...any) {
	if !bool(t) && !traceEnabled.Load() {
		return
	}
	log.Printf("[GEOST] "+format, args...)
}
