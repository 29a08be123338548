// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/ddcache/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// sharedMultiMap is one partition of the shared cache. Every element is
// reference counted; elements nobody references sit on a free list bounded
// by the partition capacity, which evicts the least recently released
// element first.
//
// The mutex is never held across storage access. A lookup that misses
// registers its key as missed and returns; the caller fetches the object
// and then calls put or abandonMiss. Concurrent lookups of a missed key
// wait for that outcome instead of reading storage again.
type sharedMultiMap struct {
	part     ddobj.Partition
	metrics  partitionMetrics
	evictLog log.EveryN

	mu struct {
		syncutil.Mutex

		capacity int
		index    *multiKeyIndex
		free     *simplelru.LRU[*Element, struct{}]
		missed   map[ddobj.Key]struct{}
	}
	// missDone is signaled whenever a missed key is resolved.
	missDone *sync.Cond
}

// evictLogInterval rate limits the eviction log message of a partition.
const evictLogInterval = time.Minute

func newSharedMultiMap(
	p ddobj.Partition, capacity int, metrics partitionMetrics,
) (*sharedMultiMap, error) {
	m := &sharedMultiMap{part: p, metrics: metrics, evictLog: log.Every(evictLogInterval)}
	free, err := simplelru.NewLRU[*Element, struct{}](capacity, m.onEvictLocked)
	if err != nil {
		return nil, errors.Wrapf(err, "partition %s", p)
	}
	m.mu.capacity = capacity
	m.mu.index = newMultiKeyIndex()
	m.mu.free = free
	m.mu.missed = make(map[ddobj.Key]struct{})
	m.missDone = sync.NewCond(&m.mu)
	return m, nil
}

// onEvictLocked is called by the free list whenever an element leaves it,
// either because it was reused, dropped, or pushed out by capacity. Only in
// the last case is the element still unreferenced and indexed.
func (m *sharedMultiMap) onEvictLocked(e *Element, _ struct{}) {
	if e.refs > 0 || !e.indexed {
		return
	}
	m.mu.index.removeSingleElement(e)
	e.indexed = false
	e.obj = nil
	m.metrics.evictions.Inc()
	if log.V(1) && m.evictLog.ShouldLog() {
		log.Infof(context.Background(),
			"partition %s is at capacity %d, evicting unused elements", m.part, m.mu.capacity)
	}
}

func (m *sharedMultiMap) updateGaugesLocked() {
	m.metrics.elements.Set(float64(m.mu.index.len()))
	m.metrics.unused.Set(float64(m.mu.free.Len()))
}

// refLocked takes a reference on e, taking it off the free list if needed.
func (m *sharedMultiMap) refLocked(e *Element) {
	e.refs++
	if e.refs == 1 {
		m.mu.free.Remove(e)
	}
}

// unlinkLocked removes e from the index. An unreferenced element is deleted
// right away; a referenced one is deleted on its last release.
func (m *sharedMultiMap) unlinkLocked(e *Element) {
	if e.indexed {
		m.mu.index.removeSingleElement(e)
		e.indexed = false
	}
	if e.refs == 0 {
		m.mu.free.Remove(e)
		e.obj = nil
	}
}

func (m *sharedMultiMap) resolveMissLocked(k ddobj.Key) {
	if _, ok := m.mu.missed[k]; ok {
		delete(m.mu.missed, k)
		m.missDone.Broadcast()
	}
}

// available returns true if k is present, as an object or a negative
// entry.
func (m *sharedMultiMap) available(k ddobj.Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mu.index.isPresent(k)
}

// get returns the element registered under k with a reference taken on it.
// If k is absent, get registers it as missed and returns miss = true; the
// caller must then resolve the miss with put or abandonMiss.
func (m *sharedMultiMap) get(k ddobj.Key) (_ *Element, miss bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		if e := m.mu.index.get(k); e != nil {
			m.refLocked(e)
			m.metrics.hits.Inc()
			m.updateGaugesLocked()
			return e, false
		}
		if _, ok := m.mu.missed[k]; !ok {
			m.mu.missed[k] = struct{}{}
			m.metrics.misses.Inc()
			return nil, true
		}
		m.missDone.Wait()
	}
}

// abandonMiss resolves a miss without caching anything, after the fetch
// failed.
func (m *sharedMultiMap) abandonMiss(k ddobj.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolveMissLocked(k)
}

// put adds obj to the partition and returns its element with one reference
// taken. missKey, if set, is the key whose miss this put resolves. A nil
// obj creates a negative entry under missKey.
//
// If an element with the same id is present already, that element is
// returned instead and obj is discarded. Any other element registered under
// one of obj's keys is stale and is unlinked.
func (m *sharedMultiMap) put(missKey ddobj.Key, obj ddobj.Object) (*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.updateGaugesLocked()
	if missKey != nil {
		m.resolveMissLocked(missKey)
	}

	if obj == nil {
		if missKey == nil {
			return nil, errors.AssertionFailedf("negative entry in partition %s without a key", m.part)
		}
		if e := m.mu.index.get(missKey); e != nil {
			m.refLocked(e)
			return e, nil
		}
		e := newNegativeElement(m.part, missKey)
		if err := m.mu.index.addSingleElement(e); err != nil {
			return nil, err
		}
		e.indexed, e.refs = true, 1
		return e, nil
	}

	if p := obj.Kind().Partition(); p != m.part {
		return nil, errors.AssertionFailedf("cannot put %s into partition %s", obj, m.part)
	}
	if obj.GetID() != ddobj.InvalidID {
		if e := m.mu.index.get(ddobj.MakeIDKey(obj.GetID())); e != nil && !e.IsNegative() {
			m.refLocked(e)
			return e, nil
		}
	}
	e := NewElement(obj)
	if err := m.indexLocked(e); err != nil {
		return nil, err
	}
	e.refs = 1
	return e, nil
}

// indexLocked registers e, unlinking whatever else is registered under its
// keys.
func (m *sharedMultiMap) indexLocked(e *Element) error {
	e.keys(func(k ddobj.Key) {
		if o := m.mu.index.get(k); o != nil && o != e {
			m.unlinkLocked(o)
		}
	})
	if err := m.mu.index.addSingleElement(e); err != nil {
		return err
	}
	e.indexed = true
	return nil
}

// release gives up one reference on e. An unreferenced element goes onto
// the free list, possibly evicting the oldest unused element; one that was
// unlinked while referenced is deleted.
func (m *sharedMultiMap) release(e *Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.refs <= 0 {
		panic(errors.AssertionFailedf("element %s released with refcount %d", e, e.refs))
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	if !e.indexed {
		e.obj = nil
		return
	}
	m.mu.free.Add(e, struct{}{})
	m.updateGaugesLocked()
}

// drop removes e from the partition and consumes the caller's reference on
// it, if it holds one. The caller guarantees by locking that nobody else
// uses the object.
func (m *sharedMultiMap) drop(e *Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.refs > 0 {
		e.refs--
	}
	m.unlinkLocked(e)
	m.updateGaugesLocked()
}

// dropIfPresent removes the element registered under k, if any.
func (m *sharedMultiMap) dropIfPresent(k ddobj.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.mu.index.get(k); e != nil {
		m.unlinkLocked(e)
		m.updateGaugesLocked()
	}
}

// replace makes obj the object of e and returns the element now holding
// obj, with the caller's reference on e moved to it. The caller holds a
// reference on e.
//
// An element only the caller references is re-keyed in place. Otherwise
// other holders may have indexed e under its current keys, so e is left
// untouched and unlinked, and obj gets a fresh element.
func (m *sharedMultiMap) replace(e *Element, obj ddobj.Object) (*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.updateGaugesLocked()
	if !e.indexed || e.refs == 0 {
		return nil, errors.AssertionFailedf("cannot replace unreferenced or unlinked element %s", e)
	}
	if obj.Kind().Partition() != m.part {
		return nil, errors.AssertionFailedf("cannot replace %s with %s", e, obj)
	}
	if e.refs == 1 {
		m.mu.index.removeSingleElement(e)
		e.indexed = false
		e.obj, e.missKey = obj, nil
		e.recomputeKeys()
		return e, m.indexLocked(e)
	}
	m.unlinkLocked(e)
	fresh := NewElement(obj)
	if err := m.indexLocked(fresh); err != nil {
		return nil, err
	}
	e.refs--
	fresh.refs = 1
	return fresh, nil
}

// reset deletes every unused element.
func (m *sharedMultiMap) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mu.free.Purge()
	m.updateGaugesLocked()
}

// PartitionStats describes the state of one shared cache partition.
type PartitionStats struct {
	Partition ddobj.Partition
	Capacity  int
	Elements  int
	Unused    int
	Negative  int
	Misses    int
}

func (m *sharedMultiMap) stats() PartitionStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := PartitionStats{
		Partition: m.part,
		Capacity:  m.mu.capacity,
		Elements:  m.mu.index.len(),
		Unused:    m.mu.free.Len(),
		Misses:    len(m.mu.missed),
	}
	m.mu.index.iterate(func(e *Element) bool {
		if e.IsNegative() {
			s.Negative++
		}
		return true
	})
	return s
}

// describe renders the live elements and their reference counts.
func (m *sharedMultiMap) describe() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, 0, m.mu.index.len())
	m.mu.index.iterate(func(e *Element) bool {
		lines = append(lines, fmt.Sprintf("%s refs=%d", e, e.refs))
		return true
	})
	return lines
}

// checkInvariants verifies the index invariants and that the free list
// holds exactly the unreferenced live elements.
func (m *sharedMultiMap) checkInvariants() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mu.index.checkInvariants(); err != nil {
		return err
	}
	if n := m.mu.free.Len(); n > m.mu.capacity {
		return errors.AssertionFailedf("%d unused elements exceed capacity %d", n, m.mu.capacity)
	}
	var err error
	m.mu.index.iterate(func(e *Element) bool {
		switch {
		case e.refs < 0:
			err = errors.AssertionFailedf("element %s has refcount %d", e, e.refs)
		case (e.refs == 0) != m.mu.free.Contains(e):
			err = errors.AssertionFailedf("element %s with refcount %d is misplaced on the free list", e, e.refs)
		case !e.indexed:
			err = errors.AssertionFailedf("element %s is live but not marked indexed", e)
		}
		return err == nil
	})
	return err
}
