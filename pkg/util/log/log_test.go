// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestTagsAndSeverity(t *testing.T) {
	buf := captureOutput(t)
	ctx := logtags.AddTag(context.Background(), "n", 1)
	ctx = logtags.AddTag(ctx, "client", "7")

	Warningf(ctx, "cache %s is full", redact.Safe("schema"))
	out := buf.String()
	require.Regexp(t, `^W\d{6} \d{2}:\d{2}:\d{2}\.\d{6} log_test.go:\d+ \[n1,client=7\] cache schema is full\n$`, out)
}

func TestRedactable(t *testing.T) {
	buf := captureOutput(t)
	SetRedactable(true)
	defer SetRedactable(false)

	Infof(context.Background(), "dropped %s %d", "secret", redact.Safe(3))
	require.Contains(t, buf.String(), "dropped ‹secret› 3")

	buf.Reset()
	SetRedactable(false)
	Infof(context.Background(), "dropped %s", "secret")
	require.Contains(t, buf.String(), "dropped secret")
}

func TestVerbosity(t *testing.T) {
	buf := captureOutput(t)
	prev := SetVerbosity(0)
	defer SetVerbosity(prev)

	VEventf(context.Background(), 2, "hidden")
	require.Empty(t, buf.String())
	require.False(t, ExpensiveLogEnabled(context.Background(), 1))

	SetVerbosity(2)
	VEventf(context.Background(), 2, "shown")
	require.Contains(t, buf.String(), "shown")
}

func TestFatalExitOverride(t *testing.T) {
	buf := captureOutput(t)
	var code int
	SetExitFunc(true /* hideStack */, func(c int) { code = c })
	defer ResetExitFunc()

	Fatalf(context.Background(), "core table %d missing", 3)
	require.Equal(t, 255, code)
	require.Contains(t, buf.String(), "core table 3 missing")
	require.NotContains(t, buf.String(), "goroutine")
}

func TestFormatWithContextTags(t *testing.T) {
	ctx := logtags.AddTag(context.Background(), "bootstrap", nil)
	require.Equal(t, "[bootstrap] stage 3", FormatWithContextTags(ctx, "stage %d", 3))
}

func TestEveryN(t *testing.T) {
	e := Every(time.Minute)
	now := time.Now()
	require.True(t, e.shouldLog(now))
	require.False(t, e.shouldLog(now.Add(time.Second)))
	require.True(t, e.shouldLog(now.Add(2*time.Minute)))
}

func TestBridges(t *testing.T) {
	buf := captureOutput(t)
	NewStdLogger(SeverityError, "pebble").Print("compaction failed")
	require.Regexp(t, `^E.*pebble compaction failed\n$`, buf.String())

	buf.Reset()
	NewStorageLogger(context.Background()).Infof("flushed %d bytes", 10)
	require.Contains(t, buf.String(), "[storage] flushed 10 bytes")
}
