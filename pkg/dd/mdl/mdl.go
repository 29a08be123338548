// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package mdl models the metadata locks a session holds on dictionary
// objects. The dictionary never acquires metadata locks itself; it only
// checks that its callers did.
package mdl

import (
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/util/syncutil"
	"github.com/cockroachdb/redact"
)

// Namespace is the kind of name a lock protects.
type Namespace uint8

// SafeValue implements the redact.SafeValue interface.
func (Namespace) SafeValue() {}

// The lock namespaces.
const (
	NamespaceInvalid Namespace = iota
	NamespaceSchema
	NamespaceTable
	NamespaceTablespace
	NamespaceEvent
	NamespaceFunction
	NamespaceProcedure
)

var namespaceNames = [...]string{
	NamespaceInvalid:    "invalid",
	NamespaceSchema:     "schema",
	NamespaceTable:      "table",
	NamespaceTablespace: "tablespace",
	NamespaceEvent:      "event",
	NamespaceFunction:   "function",
	NamespaceProcedure:  "procedure",
}

func (n Namespace) String() string {
	if int(n) < len(namespaceNames) {
		return namespaceNames[n]
	}
	return "unknown"
}

// Mode is the strength of a lock.
type Mode uint8

// SafeValue implements the redact.SafeValue interface.
func (Mode) SafeValue() {}

// The lock modes, weakest first.
const (
	IntentionExclusive Mode = iota
	Shared
	Exclusive
)

func (m Mode) String() string {
	switch m {
	case IntentionExclusive:
		return "IX"
	case Shared:
		return "S"
	case Exclusive:
		return "X"
	}
	return "?"
}

// Key names the object a lock protects. ParentID is the schema of
// schema-scoped objects.
type Key struct {
	Namespace Namespace
	ParentID  ddobj.ID
	Name      string
}

// SafeFormat implements redact.SafeFormatter.
func (k Key) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s:", k.Namespace)
	if k.ParentID != ddobj.InvalidID {
		w.Printf("%d.", k.ParentID)
	}
	w.Printf("%q", k.Name)
}

func (k Key) String() string { return redact.StringWithoutMarkers(k) }

// KeyFor returns the lock key protecting obj, and false for kinds that are
// not protected by metadata locks.
func KeyFor(obj ddobj.Object) (Key, bool) {
	var ns Namespace
	switch obj.Kind() {
	case ddobj.KindSchema:
		ns = NamespaceSchema
	case ddobj.KindTable, ddobj.KindView:
		ns = NamespaceTable
	case ddobj.KindTablespace:
		ns = NamespaceTablespace
	case ddobj.KindEvent:
		ns = NamespaceEvent
	case ddobj.KindFunction:
		ns = NamespaceFunction
	case ddobj.KindProcedure:
		ns = NamespaceProcedure
	default:
		return Key{}, false
	}
	k := Key{Namespace: ns, Name: obj.GetName()}
	if s, ok := obj.(ddobj.SchemaScoped); ok {
		k.ParentID = s.GetSchemaID()
	}
	return k, true
}

// Checker answers whether the current session holds the locks required to
// read or modify an object.
type Checker interface {
	IsReadLocked(obj ddobj.Object) bool
	IsWriteLocked(obj ddobj.Object) bool
}

// AllowAll is a Checker that considers every object locked. It serves
// single-threaded tools and bootstrap, which run without concurrent
// sessions.
type AllowAll struct{}

var _ Checker = AllowAll{}

// IsReadLocked implements Checker.
func (AllowAll) IsReadLocked(ddobj.Object) bool { return true }

// IsWriteLocked implements Checker.
func (AllowAll) IsWriteLocked(ddobj.Object) bool { return true }

type lockEntry struct {
	key  Key
	mode Mode
}

// Tracker records the locks granted to one session. It is safe for
// concurrent use so that a lock manager may grant and revoke locks from
// other goroutines.
type Tracker struct {
	held syncutil.Set[lockEntry]
}

var _ Checker = (*Tracker)(nil)

// Acquire records that the session holds k in mode m.
func (t *Tracker) Acquire(k Key, m Mode) {
	t.held.Add(lockEntry{key: k, mode: m})
}

// Release forgets the lock on k in mode m.
func (t *Tracker) Release(k Key, m Mode) {
	t.held.Remove(lockEntry{key: k, mode: m})
}

// ReleaseAll forgets every lock, as at the end of a transaction.
func (t *Tracker) ReleaseAll() {
	t.held.Range(func(e lockEntry) bool {
		t.held.Remove(e)
		return true
	})
}

// Len returns the number of locks held.
func (t *Tracker) Len() int {
	return t.held.Len()
}

// Holds returns true if k is held in mode m or stronger.
func (t *Tracker) Holds(k Key, m Mode) bool {
	for mode := m; mode <= Exclusive; mode++ {
		if t.held.Contains(lockEntry{key: k, mode: mode}) {
			return true
		}
	}
	return false
}

// IsReadLocked implements Checker. Objects without metadata locks are
// always considered locked.
func (t *Tracker) IsReadLocked(obj ddobj.Object) bool {
	k, ok := KeyFor(obj)
	return !ok || t.Holds(k, IntentionExclusive)
}

// IsWriteLocked implements Checker. Schemas and tablespaces are modified
// under intention exclusive locks while their contents change; everything
// else requires an exclusive lock.
func (t *Tracker) IsWriteLocked(obj ddobj.Object) bool {
	k, ok := KeyFor(obj)
	if !ok {
		return true
	}
	switch k.Namespace {
	case NamespaceSchema, NamespaceTablespace:
		return t.Holds(k, IntentionExclusive)
	}
	return t.Holds(k, Exclusive)
}
