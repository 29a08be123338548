// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	formatTags(ctx, true /* brackets */, &buf)
	buf.WriteString(redact.Sprintf(format, args...).StripMarkers())
	return buf.String()
}

func formatTags(ctx context.Context, brackets bool, buf *strings.Builder) bool {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return false
	}
	if brackets {
		buf.WriteByte('[')
	}
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if v := t.ValueStr(); v != "" {
			if len(t.Key()) > 1 {
				buf.WriteByte('=')
			}
			buf.WriteString(v)
		}
	}
	if brackets {
		buf.WriteString("] ")
	}
	return true
}

// addStructured creates a log entry of the given severity and writes it to
// the output. depth is the number of stack frames between the caller of
// the public logging function and this function.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	file, line := "???", 1
	if _, f, l, ok := runtime.Caller(depth + 1); ok {
		file, line = filepath.Base(f), l
	}
	msg := redact.Sprintf(format, args...)

	logging.mu.Lock()
	defer logging.mu.Unlock()

	var buf strings.Builder
	colors := logging.mu.colors
	if colors != nil {
		buf.Write(colors.prefixFor(sev))
	}
	buf.WriteByte(severityChars[sev])
	buf.WriteString(time.Now().UTC().Format("060102 15:04:05.000000"))
	if colors != nil {
		buf.Write(colorReset)
	}
	fmt.Fprintf(&buf, " %s:%d ", file, line)
	formatTags(ctx, true /* brackets */, &buf)
	if logging.mu.redactable {
		buf.WriteString(string(msg))
	} else {
		buf.WriteString(msg.StripMarkers())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		buf.WriteByte('\n')
	}
	if sev == SeverityFatal && !logging.mu.exitOverride.hideStack {
		buf.Write(debug.Stack())
	}
	if _, err := logging.mu.w.Write([]byte(buf.String())); err != nil && sev != SeverityFatal {
		logging.exitLocked(err)
		return
	}
	if sev == SeverityFatal {
		logging.exitLocked(nil)
	}
}
