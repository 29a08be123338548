// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// fakeStorage serves schemas from a map and counts reads.
type fakeStorage struct {
	mu      sync.Mutex
	schemas map[ddobj.ID]*ddobj.Schema
	reads   int
	err     error
	// panics makes the next read panic.
	panics bool
	// block, if set, is waited on by every read.
	block chan struct{}
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{schemas: make(map[ddobj.ID]*ddobj.Schema)}
}

func (s *fakeStorage) Get(
	_ context.Context, p ddobj.Partition, key ddobj.Key, _ isolation.Level,
) (ddobj.Object, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.panics {
		s.panics = false
		panic("read interrupted")
	}
	if s.err != nil {
		return nil, s.err
	}
	if p != ddobj.PartitionSchema {
		return nil, nil
	}
	for _, sc := range s.schemas {
		switch k := key.(type) {
		case ddobj.IDKey:
			if sc.ID == k.ID {
				return sc.Clone(), nil
			}
		case ddobj.NameKey:
			if nk, _ := sc.NameKey(); nk == k {
				return sc.Clone(), nil
			}
		}
	}
	return nil, nil
}

func (s *fakeStorage) store(sc *ddobj.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[sc.ID] = sc
}

func (s *fakeStorage) numReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func capacities(n int) map[ddobj.Partition]int {
	m := make(map[ddobj.Partition]int)
	for _, p := range ddobj.AllPartitions {
		m[p] = n
	}
	return m
}

func newTestCache(t *testing.T, capacity int) (*SharedCache, *fakeStorage) {
	s := newFakeStorage()
	c, err := NewSharedCache(s, capacities(capacity), nil)
	require.NoError(t, err)
	return c, s
}

// schemaKeyArg scans either an id= or a name= argument.
func schemaKeyArg(t *testing.T, d *datadriven.TestData) (ddobj.Key, string) {
	if d.HasArg("id") {
		var id int
		d.ScanArgs(t, "id", &id)
		return ddobj.MakeIDKey(ddobj.ID(id)), strconv.Itoa(id)
	}
	var name string
	d.ScanArgs(t, "name", &name)
	return ddobj.MakeGlobalNameKey(name), name
}

func TestSharedMultiMapDataDriven(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()

	var c *SharedCache
	var s *fakeStorage
	held := make(map[string][]*Element)
	pop := func(t *testing.T, d *datadriven.TestData) *Element {
		var h string
		d.ScanArgs(t, "h", &h)
		es := held[h]
		if len(es) == 0 {
			d.Fatalf(t, "nothing held under %q", h)
		}
		held[h] = es[:len(es)-1]
		return es[len(es)-1]
	}
	handle := func(d *datadriven.TestData, def string) string {
		if d.HasArg("h") {
			var h string
			d.ScanArgs(t, "h", &h)
			return h
		}
		return def
	}

	datadriven.RunTest(t, "testdata/shared_multi_map", func(t *testing.T, d *datadriven.TestData) string {
		if c != nil {
			defer func() {
				require.NoError(t, c.CheckInvariants())
			}()
		}
		switch d.Cmd {
		case "init":
			var capacity int
			d.ScanArgs(t, "capacity", &capacity)
			c, s = newTestCache(t, capacity)
			return ""

		case "store":
			var id int
			var name string
			d.ScanArgs(t, "id", &id)
			d.ScanArgs(t, "name", &name)
			s.store(&ddobj.Schema{ID: ddobj.ID(id), Name: name})
			return ""

		case "get":
			k, def := schemaKeyArg(t, d)
			e, err := c.Get(ctx, ddobj.PartitionSchema, k)
			if err != nil {
				return err.Error()
			}
			h := handle(d, def)
			held[h] = append(held[h], e)
			return e.String()

		case "put":
			var id int
			var name string
			d.ScanArgs(t, "id", &id)
			d.ScanArgs(t, "name", &name)
			e, err := c.Put(&ddobj.Schema{ID: ddobj.ID(id), Name: name})
			if err != nil {
				return err.Error()
			}
			h := handle(d, name)
			held[h] = append(held[h], e)
			return e.String()

		case "release":
			c.Release(pop(t, d))
			return ""

		case "drop":
			c.Drop(pop(t, d))
			return ""

		case "drop-if-present":
			k, _ := schemaKeyArg(t, d)
			c.DropIfPresent(ddobj.PartitionSchema, k)
			return ""

		case "available":
			k, _ := schemaKeyArg(t, d)
			return strconv.FormatBool(c.Available(ddobj.PartitionSchema, k))

		case "reset":
			c.Reset()
			return ""

		case "reads":
			return fmt.Sprintf("reads=%d", s.numReads())

		case "stats":
			for _, st := range c.Stats() {
				if st.Partition == ddobj.PartitionSchema {
					return fmt.Sprintf("elements=%d unused=%d negative=%d", st.Elements, st.Unused, st.Negative)
				}
			}
			return "no schema partition"

		case "dump":
			var buf bytes.Buffer
			require.NoError(t, c.Dump(&buf))
			return buf.String()

		default:
			d.Fatalf(t, "unknown command %s", d.Cmd)
			return ""
		}
	})
}

func TestSharedCacheMissError(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	c, s := newTestCache(t, 4)
	s.store(&ddobj.Schema{ID: 1, Name: "a"})

	boom := errors.New("disk on fire")
	s.err = boom
	_, err := c.Get(ctx, ddobj.PartitionSchema, ddobj.MakeIDKey(1))
	require.True(t, errors.Is(err, boom))
	require.False(t, c.Available(ddobj.PartitionSchema, ddobj.MakeIDKey(1)))

	// The failed miss did not leave the key registered as missed.
	s.err = nil
	e, err := c.Get(ctx, ddobj.PartitionSchema, ddobj.MakeIDKey(1))
	require.NoError(t, err)
	require.Equal(t, "a", e.Object().GetName())
	c.Release(e)
	require.NoError(t, c.CheckInvariants())
}

func TestSharedCacheMissPanic(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	c, s := newTestCache(t, 4)
	s.store(&ddobj.Schema{ID: 1, Name: "a"})

	s.panics = true
	require.Panics(t, func() {
		_, _ = c.Get(ctx, ddobj.PartitionSchema, ddobj.MakeIDKey(1))
	})
	for _, st := range c.Stats() {
		require.Zero(t, st.Misses, "partition %s", st.Partition)
	}

	// The next reader is not left waiting for the interrupted one.
	e, err := c.Get(ctx, ddobj.PartitionSchema, ddobj.MakeIDKey(1))
	require.NoError(t, err)
	require.Equal(t, "a", e.Object().GetName())
	c.Release(e)
	require.NoError(t, c.CheckInvariants())
}

func TestSharedCacheConcurrentMiss(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	c, s := newTestCache(t, 4)
	s.store(&ddobj.Schema{ID: 1, Name: "a"})
	s.block = make(chan struct{})

	const n = 8
	var g errgroup.Group
	elems := make([]*Element, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() (err error) {
			elems[i], err = c.Get(ctx, ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("a"))
			return err
		})
	}
	close(s.block)
	require.NoError(t, g.Wait())

	// Only one reader went to storage; everyone else waited for it.
	require.Equal(t, 1, s.numReads())
	for i := 0; i < n; i++ {
		require.Same(t, elems[0], elems[i])
	}
	for _, e := range elems {
		c.Release(e)
	}
	require.NoError(t, c.CheckInvariants())
}

func TestSharedCacheReplace(t *testing.T) {
	defer log.Scope(t).Close(t)
	c, _ := newTestCache(t, 4)

	e, err := c.Put(&ddobj.Schema{ID: 1, Name: "a"})
	require.NoError(t, err)
	replaced, err := c.Replace(e, &ddobj.Schema{ID: 1, Name: "b"})
	require.NoError(t, err)
	require.Same(t, e, replaced)
	require.False(t, c.Available(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("a")))
	require.True(t, c.Available(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("b")))
	require.True(t, c.Available(ddobj.PartitionSchema, ddobj.MakeIDKey(1)))
	c.Release(e)

	// Replacing an unreferenced element is an assertion failure.
	_, err = c.Replace(e, &ddobj.Schema{ID: 1, Name: "c"})
	require.True(t, errors.HasAssertionFailure(err))
	require.NoError(t, c.CheckInvariants())
}

func TestSharedCacheReplaceShared(t *testing.T) {
	defer log.Scope(t).Close(t)
	c, _ := newTestCache(t, 4)

	// Two holders index the element under its name.
	mine, err := c.Put(&ddobj.Schema{ID: 1, Name: "a"})
	require.NoError(t, err)
	theirs, err := c.Get(context.Background(), ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("a"))
	require.NoError(t, err)
	require.Same(t, mine, theirs)
	reg := NewRegistry()
	require.NoError(t, reg.Put(theirs))

	fresh, err := c.Replace(mine, &ddobj.Schema{ID: 1, Name: "b"})
	require.NoError(t, err)
	require.NotSame(t, mine, fresh)
	require.Equal(t, "b", fresh.Object().GetName())

	// The other holder keeps a consistent view of what it acquired.
	require.Equal(t, "a", theirs.Object().GetName())
	require.Same(t, theirs, reg.Get(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("a")))
	require.Nil(t, reg.Get(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("b")))
	require.NoError(t, reg.CheckInvariants())

	// The shared cache only knows the new version.
	require.False(t, c.Available(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("a")))
	require.True(t, c.Available(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("b")))
	require.NoError(t, c.CheckInvariants())

	reg.Remove(theirs)
	c.Release(theirs)
	c.Release(fresh)
	require.NoError(t, c.CheckInvariants())
	for _, st := range c.Stats() {
		if st.Partition == ddobj.PartitionSchema {
			require.Equal(t, 1, st.Elements)
			require.Equal(t, 1, st.Unused)
		}
	}
}

func TestSharedCacheReleaseUnderflow(t *testing.T) {
	defer log.Scope(t).Close(t)
	c, _ := newTestCache(t, 4)
	e, err := c.Put(&ddobj.Schema{ID: 1, Name: "a"})
	require.NoError(t, err)
	c.Release(e)
	require.Panics(t, func() { c.Release(e) })
}

func TestSharedCachePartitionMismatch(t *testing.T) {
	defer log.Scope(t).Close(t)
	c, _ := newTestCache(t, 4)
	_, err := c.partition(ddobj.PartitionSchema).put(nil, &ddobj.Tablespace{ID: 1, Name: "ts"})
	require.True(t, errors.HasAssertionFailure(err))

	_, err = NewSharedCache(newFakeStorage(), capacities(0), nil)
	require.Error(t, err)
}

// TestSharedCacheCapacityBound releases many elements into a small
// partition and checks that the free list never outgrows its capacity.
func TestSharedCacheCapacityBound(t *testing.T) {
	defer log.Scope(t).Close(t)
	c, _ := newTestCache(t, 3)
	var es []*Element
	for i := 1; i <= 20; i++ {
		e, err := c.Put(&ddobj.Schema{ID: ddobj.ID(i), Name: fmt.Sprintf("s%d", i)})
		require.NoError(t, err)
		es = append(es, e)
		if i%4 == 0 {
			for _, e := range es {
				c.Release(e)
			}
			es = es[:0]
		}
		require.NoError(t, c.CheckInvariants())
		for _, st := range c.Stats() {
			require.LessOrEqual(t, st.Unused, st.Capacity)
		}
	}
}
