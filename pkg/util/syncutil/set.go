// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package syncutil

import "sync"

// Set is like a Go map[V]struct{} but is safe for concurrent use by multiple
// goroutines without additional locking or coordination. The zero Set is
// empty and ready for use.
type Set[V comparable] struct {
	m sync.Map
}

// Add adds the value to the set. It returns true if the value was not
// already present.
func (s *Set[V]) Add(value V) bool {
	_, loaded := s.m.LoadOrStore(value, struct{}{})
	return !loaded
}

// Remove removes the value from the set. It returns true if the value was
// present.
func (s *Set[V]) Remove(value V) bool {
	_, loaded := s.m.LoadAndDelete(value)
	return loaded
}

// Contains returns whether the value is in the set.
func (s *Set[V]) Contains(value V) bool {
	_, ok := s.m.Load(value)
	return ok
}

// Range calls f sequentially for each value present in the set. If f returns
// false, range stops the iteration.
func (s *Set[V]) Range(f func(value V) bool) {
	s.m.Range(func(k, _ any) bool {
		return f(k.(V))
	})
}

// Len returns the number of values in the set. It is linear in the size of
// the set and not consistent with concurrent mutations.
func (s *Set[V]) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
