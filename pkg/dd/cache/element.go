// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"sync/atomic"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/redact"
)

// elementSeq hands out the identity of every element. It orders the
// reverse-pointer maps, so iteration follows creation order.
var elementSeq atomic.Uint64

// Element wraps one dictionary object together with the keys derived from
// it. An element of a shared partition additionally carries a reference
// count; an element with no object is a negative entry recording that the
// object under its miss key does not exist.
type Element struct {
	seq  uint64
	part ddobj.Partition
	obj  ddobj.Object

	idKey   ddobj.IDKey
	nameKey ddobj.NameKey
	auxKey  ddobj.AuxKey
	hasID   bool
	hasName bool
	hasAux  bool

	// missKey is the only key of a negative entry.
	missKey ddobj.Key

	// The fields below are owned by the sharedMultiMap the element lives in
	// and are guarded by its mutex.
	refs    int
	indexed bool
}

// NewElement wraps obj and computes all of its keys.
func NewElement(obj ddobj.Object) *Element {
	e := &Element{seq: elementSeq.Add(1), part: obj.Kind().Partition(), obj: obj}
	e.recomputeKeys()
	return e
}

// NewTombstone wraps obj and registers only its id key. Tombstones record
// that an object is gone without claiming its name, which a later object
// may reuse.
func NewTombstone(obj ddobj.Object) *Element {
	e := &Element{seq: elementSeq.Add(1), part: obj.Kind().Partition(), obj: obj}
	e.idKey, e.hasID = ddobj.MakeIDKey(obj.GetID()), obj.GetID() != ddobj.InvalidID
	return e
}

func newNegativeElement(p ddobj.Partition, key ddobj.Key) *Element {
	return &Element{seq: elementSeq.Add(1), part: p, missKey: key}
}

func (e *Element) recomputeKeys() {
	e.hasID, e.hasName, e.hasAux = false, false, false
	if e.obj == nil {
		return
	}
	if id := e.obj.GetID(); id != ddobj.InvalidID {
		e.idKey, e.hasID = ddobj.MakeIDKey(id), true
	}
	e.nameKey, e.hasName = e.obj.NameKey()
	e.auxKey, e.hasAux = e.obj.AuxKey()
}

// Object returns the wrapped object, or nil for a negative entry. Objects
// of shared elements must not be modified.
func (e *Element) Object() ddobj.Object { return e.obj }

// Partition returns the partition the element belongs to.
func (e *Element) Partition() ddobj.Partition { return e.part }

// IsNegative returns true if the element records a confirmed absence.
func (e *Element) IsNegative() bool { return e.obj == nil }

// IDKey returns the id key of the element, if it has one.
func (e *Element) IDKey() (ddobj.IDKey, bool) { return e.idKey, e.hasID }

// NameKey returns the name key of the element, if it has one.
func (e *Element) NameKey() (ddobj.NameKey, bool) { return e.nameKey, e.hasName }

// AuxKey returns the aux key of the element, if it has one.
func (e *Element) AuxKey() (ddobj.AuxKey, bool) { return e.auxKey, e.hasAux }

// keys calls fn for every key the element is indexed under.
func (e *Element) keys(fn func(ddobj.Key)) {
	if e.missKey != nil {
		fn(e.missKey)
		return
	}
	if e.hasID {
		fn(e.idKey)
	}
	if e.hasName {
		fn(e.nameKey)
	}
	if e.hasAux {
		fn(e.auxKey)
	}
}

// SafeFormat implements redact.SafeFormatter.
func (e *Element) SafeFormat(w redact.SafePrinter, _ rune) {
	if e.obj == nil {
		w.Printf("negative(%s)", e.missKey)
		return
	}
	w.Print(e.obj)
}

func (e *Element) String() string { return redact.StringWithoutMarkers(e) }
