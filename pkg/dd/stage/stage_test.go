// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stage

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	var tr Tracker
	require.Equal(t, NotStarted, tr.Get())
	require.False(t, tr.AtLeast(CreatedTables))

	require.NoError(t, tr.Advance(Started))
	require.NoError(t, tr.Advance(CreatedTables))
	require.NoError(t, tr.Advance(CreatedTables))
	require.True(t, tr.AtLeast(CreatedTables))
	require.False(t, tr.AtLeast(Synced))

	err := tr.Advance(Started)
	require.True(t, errors.HasAssertionFailure(err))
	require.Equal(t, CreatedTables, tr.Get())

	tr.Set(NotStarted)
	require.Equal(t, NotStarted, tr.Get())
}

func TestString(t *testing.T) {
	require.Equal(t, "created tables", CreatedTables.String())
	require.Equal(t, "finished", Finished.String())
	require.Equal(t, "stage(42)", Stage(42).String())
	require.Less(t, NotStarted, Finished)
}
