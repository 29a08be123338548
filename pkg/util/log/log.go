// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements leveled, context-aware logging. Messages are
// rendered through redact, so that arguments implementing
// redact.SafeFormatter keep their safe parts unredacted, and are prefixed
// with the logtags attached to the context.
package log

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/ddcache/pkg/util/syncutil"
)

// Severity is the severity of a log entry.
type Severity int32

// The severities, in increasing order.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

var severityChars = [...]byte{'I', 'W', 'E', 'F'}

var severityNames = [...]string{"INFO", "WARNING", "ERROR", "FATAL"}

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// SeverityByName is the inverse of Severity.String.
func SeverityByName(name string) (Severity, bool) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), true
		}
	}
	return 0, false
}

type loggerT struct {
	verbosity atomic.Int32

	mu struct {
		syncutil.Mutex

		w          io.Writer
		redactable bool
		colors     *colorProfile

		exitOverride struct {
			f         func(int)
			hideStack bool
		}
	}
}

var logging = func() *loggerT {
	l := &loggerT{}
	l.mu.w = os.Stderr
	l.mu.colors = stderrColorProfile
	return l
}()

// SetOutput redirects all log output to w and returns a function restoring
// the previous output.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prevW, prevColors := logging.mu.w, logging.mu.colors
	logging.mu.w = w
	logging.mu.colors = nil
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.w, logging.mu.colors = prevW, prevColors
	}
}

// SetRedactable controls whether emitted entries keep their redaction
// markers.
func SetRedactable(redactable bool) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.redactable = redactable
}

// SetVerbosity sets the level up to which V returns true and returns the
// previous level.
func SetVerbosity(level int32) int32 {
	return logging.verbosity.Swap(level)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// ExpensiveLogEnabled is used to test whether effort should be used to
// produce log messages whose construction is costly. It is a cheaper
// alternative to calling V(level) when the context may carry other sinks in
// the future.
func ExpensiveLogEnabled(ctx context.Context, level int32) bool {
	return V(level)
}

// Infof logs to the INFO log.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityInfo, 1, format, args)
}

// Info logs a message with no formatting to the INFO log.
func Info(ctx context.Context, msg string) {
	addStructured(ctx, SeverityInfo, 1, "%s", []interface{}{msg})
}

// Warningf logs to the WARNING log.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityWarning, 1, format, args)
}

// Errorf logs to the ERROR log.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityError, 1, format, args)
}

// Fatalf logs to the FATAL log and then exits the process, unless an exit
// function has been installed with SetExitFunc.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, SeverityFatal, 1, format, args)
}

// VEventf logs to the INFO log if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, SeverityInfo, 1, format, args)
	}
}
