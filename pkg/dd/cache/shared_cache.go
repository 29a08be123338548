// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cache implements the dictionary object caches: the unsynchronized
// Registry used by dictionary clients and by the storage core registry, and
// the process-wide SharedCache of reference counted elements.
package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
)

// Storage is the source the shared cache fetches missing objects from. A
// nil object with a nil error means the object does not exist.
type Storage interface {
	Get(ctx context.Context, p ddobj.Partition, key ddobj.Key, level isolation.Level) (ddobj.Object, error)
}

// SharedCache is the process-wide cache of committed dictionary objects,
// partitioned by object kind. Elements handed out by Get and Put carry a
// reference that must be given back with Release.
type SharedCache struct {
	storage Storage
	metrics *Metrics
	maps    [ddobj.NumPartitions]*sharedMultiMap
}

// NewSharedCache creates a shared cache reading from storage. Every cached
// partition needs a positive capacity.
func NewSharedCache(
	storage Storage, capacities map[ddobj.Partition]int, metrics *Metrics,
) (*SharedCache, error) {
	if metrics == nil {
		metrics = NewMetrics()
	}
	c := &SharedCache{storage: storage, metrics: metrics}
	for _, p := range ddobj.AllPartitions {
		m, err := newSharedMultiMap(p, capacities[p], metrics.forPartition(p))
		if err != nil {
			return nil, errors.Wrap(err, "creating shared cache")
		}
		c.maps[p] = m
	}
	return c, nil
}

// Metrics returns the metrics of the cache.
func (c *SharedCache) Metrics() *Metrics { return c.metrics }

func (c *SharedCache) partition(p ddobj.Partition) *sharedMultiMap {
	if p <= ddobj.PartitionInvalid || p >= ddobj.NumPartitions {
		panic(errors.AssertionFailedf("invalid partition %d", p))
	}
	return c.maps[p]
}

// Available returns true if k is cached in partition p, so that Get would
// not access storage.
func (c *SharedCache) Available(p ddobj.Partition, k ddobj.Key) bool {
	return c.partition(p).available(k)
}

// Get returns the element registered under k in partition p, fetching it
// from storage at read committed isolation on a miss. The element may be
// negative, meaning the object does not exist; it must be released either
// way.
func (c *SharedCache) Get(ctx context.Context, p ddobj.Partition, k ddobj.Key) (*Element, error) {
	m := c.partition(p)
	e, miss := m.get(k)
	if !miss {
		return e, nil
	}
	log.VEventf(ctx, 3, "shared cache miss on %s in partition %s", k, p)
	// Waiters on k are woken even if the read panics.
	resolved := false
	defer func() {
		if !resolved {
			m.abandonMiss(k)
		}
	}()
	obj, err := c.storage.Get(ctx, p, k, isolation.ReadCommitted)
	if err == nil && obj != nil && obj.Kind().Partition() != p {
		err = errors.AssertionFailedf("storage returned %s for %s in partition %s", obj, k, p)
	}
	if err != nil {
		return nil, err
	}
	resolved = true
	return m.put(k, obj)
}

// GetUncached reads the object registered under k directly from storage at
// the given isolation level. The caller owns the returned object. It is
// also the only way to read statistics, which are never cached.
func (c *SharedCache) GetUncached(
	ctx context.Context, p ddobj.Partition, k ddobj.Key, level isolation.Level,
) (ddobj.Object, error) {
	return c.storage.Get(ctx, p, k, level)
}

// Put adds obj to the cache and returns its element with a reference taken.
// The cache takes ownership of obj.
func (c *SharedCache) Put(obj ddobj.Object) (*Element, error) {
	if obj == nil {
		return nil, errors.AssertionFailedf("cannot put a nil object")
	}
	return c.partition(obj.Kind().Partition()).put(nil, obj)
}

// Release gives back a reference obtained from Get or Put.
func (c *SharedCache) Release(e *Element) {
	c.partition(e.part).release(e)
}

// Drop removes e from the cache, consuming the caller's reference. The
// caller must hold an exclusive lock on the object.
func (c *SharedCache) Drop(e *Element) {
	c.partition(e.part).drop(e)
}

// DropIfPresent removes the element registered under k, if any.
func (c *SharedCache) DropIfPresent(p ddobj.Partition, k ddobj.Key) {
	c.partition(p).dropIfPresent(k)
}

// Replace makes obj the shared version of the object of e, which the
// caller holds a reference on. It returns the element holding obj, which
// the caller's reference now applies to. Other holders of e keep seeing the
// object they acquired until they release it.
func (c *SharedCache) Replace(e *Element, obj ddobj.Object) (*Element, error) {
	return c.partition(e.part).replace(e, obj)
}

// Reset deletes every unused element of every partition.
func (c *SharedCache) Reset() {
	for _, p := range ddobj.AllPartitions {
		c.maps[p].reset()
	}
}

// Stats returns the state of every partition.
func (c *SharedCache) Stats() []PartitionStats {
	stats := make([]PartitionStats, 0, len(ddobj.AllPartitions))
	for _, p := range ddobj.AllPartitions {
		stats = append(stats, c.maps[p].stats())
	}
	return stats
}

// Dump writes the elements of every partition to w.
func (c *SharedCache) Dump(w io.Writer) error {
	for _, p := range ddobj.AllPartitions {
		lines := c.maps[p].describe()
		if len(lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", p); err != nil {
			return err
		}
		for _, l := range lines {
			if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckInvariants verifies the invariants of every partition.
func (c *SharedCache) CheckInvariants() error {
	for _, p := range ddobj.AllPartitions {
		if err := c.maps[p].checkInvariants(); err != nil {
			return errors.Wrapf(err, "partition %s", p)
		}
	}
	return nil
}
