// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
)

// multiKeyIndex indexes the elements of one partition by id, name, aux key
// and element identity. Only the reverse map is guaranteed to contain every
// element, since name and aux keys are optional.
type multiKeyIndex struct {
	byID   elementMap[ddobj.IDKey]
	byName elementMap[ddobj.NameKey]
	byAux  elementMap[ddobj.AuxKey]
	byElem reverseMap
}

func newMultiKeyIndex() *multiKeyIndex {
	return &multiKeyIndex{
		byID:   makeElementMap[ddobj.IDKey](),
		byName: makeElementMap[ddobj.NameKey](),
		byAux:  makeElementMap[ddobj.AuxKey](),
		byElem: makeReverseMap(),
	}
}

// get returns the element registered under k, or nil.
func (mi *multiKeyIndex) get(k ddobj.Key) *Element {
	switch k := k.(type) {
	case ddobj.IDKey:
		return mi.byID.get(k)
	case ddobj.NameKey:
		return mi.byName.get(k)
	case ddobj.AuxKey:
		return mi.byAux.get(k)
	}
	return nil
}

func (mi *multiKeyIndex) isPresent(k ddobj.Key) bool {
	return mi.get(k) != nil
}

// conflict returns the first element other than e already registered under
// one of e's keys.
func (mi *multiKeyIndex) conflict(e *Element) (other *Element) {
	e.keys(func(k ddobj.Key) {
		if other != nil {
			return
		}
		if o := mi.get(k); o != nil && o != e {
			other = o
		}
	})
	return other
}

// addSingleElement registers e under each of its keys. None of the keys may
// be present already.
func (mi *multiKeyIndex) addSingleElement(e *Element) error {
	if mi.byElem.isPresent(e) {
		return errors.AssertionFailedf("element %s is already registered", e)
	}
	if o := mi.conflict(e); o != nil {
		return errors.AssertionFailedf("element %s conflicts with registered element %s", e, o)
	}
	e.keys(func(k ddobj.Key) {
		switch k := k.(type) {
		case ddobj.IDKey:
			mi.byID.put(k, e)
		case ddobj.NameKey:
			mi.byName.put(k, e)
		case ddobj.AuxKey:
			mi.byAux.put(k, e)
		}
	})
	mi.byElem.put(e)
	return nil
}

// removeSingleElement unregisters e from every map it is present in. Keys
// that map to a different element are left alone.
func (mi *multiKeyIndex) removeSingleElement(e *Element) {
	e.keys(func(k ddobj.Key) {
		switch k := k.(type) {
		case ddobj.IDKey:
			if mi.byID.get(k) == e {
				mi.byID.remove(k)
			}
		case ddobj.NameKey:
			if mi.byName.get(k) == e {
				mi.byName.remove(k)
			}
		case ddobj.AuxKey:
			if mi.byAux.get(k) == e {
				mi.byAux.remove(k)
			}
		}
	})
	mi.byElem.remove(e)
}

// iterate visits every live element until fn returns false.
func (mi *multiKeyIndex) iterate(fn func(*Element) bool) {
	mi.byElem.iterate(fn)
}

// elements returns the live elements in creation order. Use it instead of
// iterate when the index is mutated along the way.
func (mi *multiKeyIndex) elements() []*Element {
	es := make([]*Element, 0, mi.byElem.len())
	mi.iterate(func(e *Element) bool {
		es = append(es, e)
		return true
	})
	return es
}

func (mi *multiKeyIndex) len() int { return mi.byElem.len() }

// checkInvariants verifies that every key of every live element maps back
// to it and that no map holds a dead element.
func (mi *multiKeyIndex) checkInvariants() error {
	var err error
	mi.iterate(func(e *Element) bool {
		e.keys(func(k ddobj.Key) {
			if err == nil && mi.get(k) != e {
				err = errors.AssertionFailedf("key %s of element %s does not map back to it", k, e)
			}
		})
		return err == nil
	})
	if err != nil {
		return err
	}
	check := func(e *Element) bool {
		if !mi.byElem.isPresent(e) {
			err = errors.AssertionFailedf("element %s is indexed but not live", e)
			return false
		}
		return true
	}
	mi.byID.iterate(func(_ ddobj.IDKey, e *Element) bool { return check(e) })
	mi.byName.iterate(func(_ ddobj.NameKey, e *Element) bool { return check(e) })
	mi.byAux.iterate(func(_ ddobj.AuxKey, e *Element) bool { return check(e) })
	return err
}
