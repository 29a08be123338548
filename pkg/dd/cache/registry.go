// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
)

// Registry is a set of elements indexed per partition. It is not safe for
// concurrent use; a dictionary client owns its registries and the storage
// adapter guards its core registry with a mutex of its own.
type Registry struct {
	indexes [ddobj.NumPartitions]*multiKeyIndex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, p := range ddobj.AllPartitions {
		r.indexes[p] = newMultiKeyIndex()
	}
	return r
}

func (r *Registry) index(p ddobj.Partition) *multiKeyIndex {
	if p <= ddobj.PartitionInvalid || p >= ddobj.NumPartitions {
		panic(errors.AssertionFailedf("invalid partition %d", p))
	}
	return r.indexes[p]
}

// Get returns the element registered under k in partition p, or nil.
func (r *Registry) Get(p ddobj.Partition, k ddobj.Key) *Element {
	return r.index(p).get(k)
}

// GetObject is like Get, but returns the wrapped object.
func (r *Registry) GetObject(p ddobj.Partition, k ddobj.Key) ddobj.Object {
	if e := r.Get(p, k); e != nil {
		return e.obj
	}
	return nil
}

// Put registers e in the partition of its object. It is an assertion
// failure for any of e's keys to be present already.
func (r *Registry) Put(e *Element) error {
	if e.obj == nil {
		return errors.AssertionFailedf("cannot register negative element %s", e)
	}
	return r.index(e.part).addSingleElement(e)
}

// Remove unregisters e.
func (r *Registry) Remove(e *Element) {
	r.index(e.part).removeSingleElement(e)
}

// Contains returns true if e itself is registered.
func (r *Registry) Contains(e *Element) bool {
	return r.index(e.part).byElem.isPresent(e)
}

// Iterate calls fn for each element of partition p in registration order.
// fn may remove the element it is called with.
func (r *Registry) Iterate(p ddobj.Partition, fn func(*Element) error) error {
	for _, e := range r.index(p).elements() {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of elements in partition p.
func (r *Registry) Size(p ddobj.Partition) int {
	return r.index(p).len()
}

// Empty returns true if no partition holds an element.
func (r *Registry) Empty() bool {
	for _, p := range ddobj.AllPartitions {
		if r.Size(p) > 0 {
			return false
		}
	}
	return true
}

// Clear removes every element of partition p.
func (r *Registry) Clear(p ddobj.Partition) {
	r.indexes[p] = newMultiKeyIndex()
}

// ClearAll removes every element.
func (r *Registry) ClearAll() {
	for _, p := range ddobj.AllPartitions {
		r.Clear(p)
	}
}

// CheckInvariants verifies the key/element invariants of every partition.
func (r *Registry) CheckInvariants() error {
	for _, p := range ddobj.AllPartitions {
		if err := r.index(p).checkInvariants(); err != nil {
			return errors.Wrapf(err, "partition %s", p)
		}
	}
	return nil
}
