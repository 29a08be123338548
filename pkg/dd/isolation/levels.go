// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package isolation defines the isolation levels dictionary reads may be
// performed at.
package isolation

// Level is the isolation level of a dictionary read transaction.
type Level int8

// SafeValue implements the redact.SafeValue interface.
func (Level) SafeValue() {}

const (
	// ReadCommitted is the level the shared cache fetches objects at. Each
	// read observes the latest committed state.
	ReadCommitted Level = iota
	// ReadUncommitted is used for peeks that must not block on concurrent
	// writers.
	ReadUncommitted
	// RepeatableRead reads from a snapshot taken when the transaction
	// opened.
	RepeatableRead
)

var levelNames = [...]string{
	ReadCommitted:   "READ COMMITTED",
	ReadUncommitted: "READ UNCOMMITTED",
	RepeatableRead:  "REPEATABLE READ",
}

// String implements fmt.Stringer.
func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}
