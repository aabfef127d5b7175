// runtime.go - the process-wide mutable state dirload carries on purpose
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package dirload

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opencoff/go-logger"
)

// interrupted is the signal-safe sentinel set by the SIGINT handler
// and polled by every worker and the monitor at the top of each
// iteration. It is the one piece of state that must stay a bare
// global: signal handlers can't be threaded through the call stack.
var interrupted atomic.Bool

// SetInterrupted flips the process-wide interrupt sentinel. Called
// from the program's SIGINT handler.
func SetInterrupted() { interrupted.Store(true) }

// Interrupted reports whether SetInterrupted has been called.
func Interrupted() bool { return interrupted.Load() }

// ResetInterrupted clears the sentinel.
func ResetInterrupted() { interrupted.Store(false) }

// excMu guards the process-wide accumulator of messages from
// exceptions that escaped a worker or the monitor.
var (
	excMu  sync.Mutex
	excBuf []string
)

// RecordException appends a message to the process-wide exception
// buffer, to be printed once at process exit.
func RecordException(msg string) {
	excMu.Lock()
	excBuf = append(excBuf, msg)
	excMu.Unlock()
}

// DrainExceptions returns and clears the accumulated exception
// messages.
func DrainExceptions() []string {
	excMu.Lock()
	defer excMu.Unlock()
	out := excBuf
	excBuf = nil
	return out
}

// DebugLog wraps an opencoff/go-logger sink with an explicit mutex, so
// concurrent workers never interleave partial log lines - the same
// guarantee the original gave its debug-log mutex.
type DebugLog struct {
	mu  sync.Mutex
	log logger.Logger
}

// NewDebugLog wraps 'log' (nil is fine: all methods become no-ops).
func NewDebugLog(log logger.Logger) *DebugLog {
	return &DebugLog{log: log}
}

func (d *DebugLog) Debugf(format string, args ...interface{}) {
	if d == nil || d.log == nil {
		return
	}
	d.mu.Lock()
	d.log.Debug(format, args...)
	d.mu.Unlock()
}

func (d *DebugLog) Infof(format string, args ...interface{}) {
	if d == nil || d.log == nil {
		return
	}
	d.mu.Lock()
	d.log.Info(format, args...)
	d.mu.Unlock()
}

func (d *DebugLog) Errf(format string, args ...interface{}) {
	if d == nil || d.log == nil {
		return
	}
	d.mu.Lock()
	d.log.Err(format, args...)
	d.mu.Unlock()
}

// PrintException records 'err' in the exception buffer and, when dbg
// is set, also prints it immediately to the debug log - mirroring the
// original's debug_print_complete/print_exception split.
func PrintException(d *DebugLog, err error) {
	msg := fmt.Sprintf("%s", err)
	RecordException(msg)
	d.Errf("exception: %s", msg)
}
