package common

import (
	"fmt"

	"github.com/devlights/gomy/output"
)

// Logf emits an informational, labeled log line. Labels follow the
// component that produced the message (e.g. "bufferpool", "heapfile")
// so operational traces can be grepped by subsystem.
func Logf(label, format string, args ...interface{}) {
	output.Stdoutl("["+label+"]", fmt.Sprintf(format, args...))
}

// Warnf emits a labeled warning to stderr. Used on teardown paths that
// log but must not propagate errors (see storage/buffer.Close).
func Warnf(label, format string, args ...interface{}) {
	output.Stderrl("["+label+"]", fmt.Sprintf(format, args...))
}

// Debugf emits a labeled trace line only when EnableDebug is set,
// mirroring the teacher's EnableDebug-gated ShPrintf calls.
func Debugf(label, format string, args ...interface{}) {
	if !EnableDebug {
		return
	}
	output.Stdoutl("["+label+"]", fmt.Sprintf(format, args...))
}
