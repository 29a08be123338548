// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	stdLog "log"
	"strings"

	"github.com/cockroachdb/logtags"
)

// NewStdLogger creates a *stdLog.Logger that forwards messages to this
// package's output with the specified severity.
//
// The prefix should be the name of the component the logger is used by.
func NewStdLogger(severity Severity, prefix string) *stdLog.Logger {
	if prefix != "" && !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}
	return stdLog.New(logBridge(severity), prefix, 0)
}

// logBridge provides the Write method that connects a standard logger to
// the logs provided by this package.
type logBridge Severity

// Write implements io.Writer.
func (lb logBridge) Write(b []byte) (n int, err error) {
	msg := string(bytes.TrimSuffix(b, []byte{'\n'}))
	// The standard logger cannot know what it is logging, so the whole line
	// is treated as unsafe.
	addStructured(context.Background(), Severity(lb), 3, "%s", []interface{}{msg})
	return len(b), nil
}

// StorageLogger routes the log output of an embedded storage engine into
// this package. It implements the Infof/Errorf/Fatalf logger interface that
// storage engines such as pebble accept.
type StorageLogger struct {
	ctx context.Context
}

// NewStorageLogger returns a StorageLogger tagging every entry with the log
// tags of ctx plus a "storage" tag.
func NewStorageLogger(ctx context.Context) StorageLogger {
	return StorageLogger{ctx: logtags.AddTag(ctx, "storage", nil)}
}

// Infof implements the storage engine logger interface.
func (l StorageLogger) Infof(format string, args ...interface{}) {
	addStructured(l.ctx, SeverityInfo, 1, format, args)
}

// Errorf implements the storage engine logger interface.
func (l StorageLogger) Errorf(format string, args ...interface{}) {
	addStructured(l.ctx, SeverityError, 1, format, args)
}

// Fatalf implements the storage engine logger interface.
func (l StorageLogger) Fatalf(format string, args ...interface{}) {
	addStructured(l.ctx, SeverityFatal, 1, format, args)
}
