// Package debug provides a gated trace logger for the tier runner. It is
// never read on the hot per-file path; only between batches and at tier
// boundaries.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// EnableDebug is a build flag override: go build -ldflags
// "-X github.com/bootstrapkit/tierengine/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugOutput io.Writer
	debugMutex  sync.Mutex
)

// SetDebugOutput sets a custom writer for debug output. Pass nil to
// disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// IsDebugEnabled reports whether trace logging is active, via the build
// flag or a runtime DEBUG=1/true environment override.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log writes a component-tagged trace line when debug output is enabled
// and configured.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format+"\n", append([]interface{}{component}, args...)...)
}

// LogDiscovery traces Discovery batch/deadline decisions.
func LogDiscovery(format string, args ...interface{}) { Log("DISCOVERY", format, args...) }

// LogExtract traces Extractor batch/deadline decisions.
func LogExtract(format string, args ...interface{}) { Log("EXTRACT", format, args...) }

// LogTier traces tier runner transitions.
func LogTier(format string, args ...interface{}) { Log("TIER", format, args...) }
