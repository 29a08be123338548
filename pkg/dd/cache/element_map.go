// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import "github.com/google/btree"

// elementMap maps one key type to elements. It is a plain dictionary: put
// requires the key to be absent and remove requires it to be present; the
// callers check.
type elementMap[K comparable] struct {
	m map[K]*Element
}

func makeElementMap[K comparable]() elementMap[K] {
	return elementMap[K]{m: make(map[K]*Element)}
}

func (em *elementMap[K]) put(k K, e *Element) { em.m[k] = e }

func (em *elementMap[K]) get(k K) *Element { return em.m[k] }

func (em *elementMap[K]) isPresent(k K) bool {
	_, ok := em.m[k]
	return ok
}

func (em *elementMap[K]) remove(k K) { delete(em.m, k) }

func (em *elementMap[K]) len() int { return len(em.m) }

// iterate calls fn for each entry in no particular order until fn returns
// false.
func (em *elementMap[K]) iterate(fn func(K, *Element) bool) {
	for k, e := range em.m {
		if !fn(k, e) {
			return
		}
	}
}

// reverseMap is the by-element map of a multiKeyIndex. It holds every live
// element exactly once, ordered by element identity.
type reverseMap struct {
	t *btree.BTreeG[*Element]
}

func elementLess(a, b *Element) bool { return a.seq < b.seq }

func makeReverseMap() reverseMap {
	return reverseMap{t: btree.NewG[*Element](8 /* degree */, elementLess)}
}

func (rm reverseMap) put(e *Element) { rm.t.ReplaceOrInsert(e) }

func (rm reverseMap) isPresent(e *Element) bool { return rm.t.Has(e) }

func (rm reverseMap) remove(e *Element) { rm.t.Delete(e) }

func (rm reverseMap) len() int { return rm.t.Len() }

// iterate visits the elements in creation order until fn returns false.
func (rm reverseMap) iterate(fn func(*Element) bool) {
	rm.t.Ascend(btree.ItemIteratorG[*Element](fn))
}
