// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"sync"
)

// tShim is the subset of testing.TB used by TestLogScope.
type tShim interface {
	Helper()
	Logf(format string, args ...interface{})
}

// TestLogScope redirects log output to the test log for the duration of a
// test. Use like this:
//
//	defer log.Scope(t).Close(t)
type TestLogScope struct {
	restore func()
	w       *testWriter
}

// Scope creates a TestLogScope which routes log output through t.
func Scope(t tShim) *TestLogScope {
	w := &testWriter{t: t}
	return &TestLogScope{restore: SetOutput(w), w: w}
}

// Close restores the previous log output. Entries logged after Close are
// no longer attributed to the test.
func (l *TestLogScope) Close(t tShim) {
	t.Helper()
	l.w.mu.Lock()
	l.w.closed = true
	l.w.mu.Unlock()
	l.restore()
}

type testWriter struct {
	mu     sync.Mutex
	t      tShim
	closed bool
}

func (w *testWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.t.Logf("%s", bytes.TrimSuffix(b, []byte{'\n'}))
	}
	return len(b), nil
}
