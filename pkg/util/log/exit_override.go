// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"fmt"
	"os"
)

// SetExitFunc allows setting a function that will be called to exit
// the process when a Fatal message is generated. The supplied bool,
// if true, suppresses the stack trace, which is useful for test
// callers wishing to keep the logs reasonably clean.
//
// Call with a nil function to undo.
func SetExitFunc(hideStack bool, f func(int)) {
	logging.mu.Lock()
	defer logging.mu.Unlock()

	logging.mu.exitOverride.f = f
	logging.mu.exitOverride.hideStack = hideStack
}

// ResetExitFunc undoes any prior call to SetExitFunc.
func ResetExitFunc() {
	logging.mu.Lock()
	defer logging.mu.Unlock()

	logging.mu.exitOverride.f = nil
	logging.mu.exitOverride.hideStack = false
}

// exitLocked is called after a fatal entry was written, or if writing an
// entry failed. If an exit override is installed it is called instead of
// exiting the process.
//
// l.mu is held.
func (l *loggerT) exitLocked(err error) {
	l.mu.AssertHeld()

	code := 255
	if err != nil {
		// The output is broken. Try the original stderr in the hope that the
		// user gets to know why we crashed.
		fmt.Fprintf(os.Stderr, "log: exiting because of error: %s\n", err)
		code = 2
	}
	if f := l.mu.exitOverride.f; f != nil {
		f(code)
		return
	}
	os.Exit(code)
}
