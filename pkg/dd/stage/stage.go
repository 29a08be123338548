// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package stage tracks how far dictionary bootstrap has progressed. Storage
// consults the current stage to decide whether objects are served from the
// core registry or from persistent tables.
package stage

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Stage is a bootstrap stage. Stages are totally ordered and only ever
// advance.
type Stage int32

// SafeValue implements the redact.SafeValue interface.
func (Stage) SafeValue() {}

// The bootstrap stages, in order.
const (
	NotStarted Stage = iota
	Started
	CreatedTablespaces
	FetchedProperties
	CreatedTables
	Synced
	UpgradedTables
	Populated
	StoredDDMetadata
	VersionUpdated
	Finished
)

var stageNames = [...]string{
	NotStarted:         "not started",
	Started:            "started",
	CreatedTablespaces: "created tablespaces",
	FetchedProperties:  "fetched properties",
	CreatedTables:      "created tables",
	Synced:             "synced",
	UpgradedTables:     "upgraded tables",
	Populated:          "populated",
	StoredDDMetadata:   "stored dd metadata",
	VersionUpdated:     "version updated",
	Finished:           "finished",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return redact.Sprintf("stage(%d)", int32(s)).StripMarkers()
	}
	return stageNames[s]
}

// Tracker holds the current stage of one dictionary instance. The zero
// value is at NotStarted.
type Tracker struct {
	cur atomic.Int32
}

// Get returns the current stage.
func (t *Tracker) Get() Stage {
	return Stage(t.cur.Load())
}

// AtLeast returns true if bootstrap has reached s.
func (t *Tracker) AtLeast(s Stage) bool {
	return t.Get() >= s
}

// Advance moves the tracker to s. Moving backwards is an assertion failure;
// advancing to the current stage is a no-op.
func (t *Tracker) Advance(s Stage) error {
	for {
		cur := t.cur.Load()
		if Stage(cur) > s {
			return errors.AssertionFailedf("cannot move bootstrap stage back from %s to %s",
				Stage(cur), s)
		}
		if t.cur.CompareAndSwap(cur, int32(s)) {
			return nil
		}
	}
}

// Set moves the tracker to s unconditionally. It is meant for tests and for
// restarting a dictionary that is already fully bootstrapped.
func (t *Tracker) Set(s Stage) {
	t.cur.Store(int32(s))
}
