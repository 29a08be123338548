// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package client_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/ddcache/pkg/dd/cache"
	"github.com/cockroachdb/ddcache/pkg/dd/client"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/dd/mdl"
	"github.com/cockroachdb/ddcache/pkg/dd/stage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage/pebblestore"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	sc *cache.SharedCache
	a  *storage.Adapter
}

func newTestEnv(t *testing.T) *testEnv {
	ctx := context.Background()
	ps, err := pebblestore.OpenInMem(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ps.Close()) })
	st := &stage.Tracker{}
	st.Set(stage.Finished)
	a := storage.NewAdapter(ps, st)
	caps := make(map[ddobj.Partition]int)
	for _, p := range ddobj.AllPartitions {
		caps[p] = 16
	}
	sc, err := cache.NewSharedCache(a, caps, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, sc.CheckInvariants()) })
	return &testEnv{sc: sc, a: a}
}

func (e *testEnv) client(t *testing.T) *client.Client {
	c := client.New(e.sc, e.a, mdl.AllowAll{})
	t.Cleanup(func() { require.NoError(t, c.Close(context.Background())) })
	return c
}

func (e *testEnv) elements(p ddobj.Partition) int {
	for _, s := range e.sc.Stats() {
		if s.Partition == p {
			return s.Elements - s.Negative
		}
	}
	return 0
}

// createSchema commits a schema named name and returns it.
func createSchema(t *testing.T, c *client.Client, name string) *ddobj.Schema {
	ctx := context.Background()
	s := &ddobj.Schema{Name: name}
	require.NoError(t, c.Store(ctx, s))
	require.NoError(t, c.Commit(ctx))
	return s
}

func TestClientIsolation(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c1, c2 := env.client(t), env.client(t)
	s := createSchema(t, c1, "s")

	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, tbl))
	require.NotEqual(t, ddobj.InvalidID, tbl.ID)

	got, err := c1.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	got, err = c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, c1.Commit(ctx))
	got, err = c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	byID, err := c2.AcquireTableByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.Same(t, got, byID)
}

func TestClientUpdate(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c1 := env.client(t)
	s := createSchema(t, c1, "s")
	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, tbl))
	require.NoError(t, c1.Commit(ctx))

	mod, err := c1.AcquireTableForModification(ctx, tbl.ID)
	require.NoError(t, err)
	shared, err := c1.AcquireTableByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.NotSame(t, shared, mod)
	mod.Name = "t2"
	require.NoError(t, c1.Update(ctx, mod))

	// The transaction sees the new name only.
	got, err := c1.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c1.AcquireTable(ctx, "s", "t2")
	require.NoError(t, err)
	require.Equal(t, mod, got)

	// Others see the committed version.
	c2 := env.client(t)
	r := c2.NewAutoReleaser()
	got, err = c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	r.Release()

	require.NoError(t, c1.Commit(ctx))
	c3 := env.client(t)
	got, err = c3.AcquireTable(ctx, "s", "t2")
	require.NoError(t, err)
	require.Equal(t, mod, got)
	got, err = c3.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	// Updating something that does not exist fails.
	require.Error(t, c1.Update(ctx, &ddobj.Table{ID: 999, Name: "x", SchemaID: s.ID, Engine: "InnoDB"}))
	c1.Rollback(ctx)
}

func TestClientDrop(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c1 := env.client(t)
	s := createSchema(t, c1, "s")
	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, tbl))
	require.NoError(t, c1.Commit(ctx))

	got, err := c1.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.NoError(t, c1.Drop(ctx, got))
	require.False(t, env.sc.Available(ddobj.PartitionAbstractTable, ddobj.MakeIDKey(tbl.ID)))
	got, err = c1.AcquireTableByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, c1.Commit(ctx))

	c2 := env.client(t)
	got, err = c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	// Storing and dropping within one transaction leaves nothing behind.
	tmp := &ddobj.Table{Name: "tmp", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, tmp))
	require.NoError(t, c1.Drop(ctx, tmp))
	got, err = c1.AcquireTable(ctx, "s", "tmp")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, c1.Commit(ctx))
	obj, err := c2.AcquireUncached(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(tmp.ID),
		isolation.ReadCommitted)
	require.NoError(t, err)
	require.Nil(t, obj)
}

func TestClientDropAfterUpdate(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	s := createSchema(t, c, "s")
	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c.Store(ctx, tbl))
	require.NoError(t, c.Commit(ctx))

	mod, err := c.AcquireTableForModification(ctx, tbl.ID)
	require.NoError(t, err)
	mod.Name = "t2"
	require.NoError(t, c.Update(ctx, mod))
	require.NoError(t, c.Drop(ctx, mod))

	got, err := c.AcquireTableByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	for _, name := range []string{"t1", "t2"} {
		got, err = c.AcquireTable(ctx, "s", name)
		require.NoError(t, err)
		require.Nil(t, got, name)
	}
	require.NoError(t, c.Commit(ctx))

	c2 := env.client(t)
	got, err = c2.AcquireTableByID(ctx, tbl.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	obj, err := c2.AcquireUncached(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(tbl.ID),
		isolation.ReadCommitted)
	require.NoError(t, err)
	require.Nil(t, obj)
}

func TestClientSeesLaterCommits(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c1, c2 := env.client(t), env.client(t)
	s := createSchema(t, c1, "s")
	t1 := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	t2 := &ddobj.Table{Name: "t2", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, t1))
	require.NoError(t, c1.Store(ctx, t2))
	require.NoError(t, c1.Commit(ctx))

	for _, name := range []string{"t1", "t2"} {
		got, err := c2.AcquireTable(ctx, "s", name)
		require.NoError(t, err)
		require.NotNil(t, got, name)
	}
	require.NoError(t, c2.Commit(ctx))

	// Rename t1 and drop t2 in another session.
	mod, err := c1.AcquireTableForModification(ctx, t1.ID)
	require.NoError(t, err)
	mod.Name = "t3"
	require.NoError(t, c1.Update(ctx, mod))
	dropped, err := c1.AcquireTable(ctx, "s", "t2")
	require.NoError(t, err)
	require.NoError(t, c1.Drop(ctx, dropped))
	require.NoError(t, c1.Commit(ctx))

	got, err := c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c2.AcquireTable(ctx, "s", "t3")
	require.NoError(t, err)
	require.Equal(t, mod, got)
	byID, err := c2.AcquireTableByID(ctx, t1.ID)
	require.NoError(t, err)
	require.Same(t, got, byID)
	got, err = c2.AcquireTable(ctx, "s", "t2")
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c2.AcquireTableByID(ctx, t2.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestClientRenameWhileHeld(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c1, c2 := env.client(t), env.client(t)
	s := createSchema(t, c1, "s")
	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c1.Store(ctx, tbl))
	require.NoError(t, c1.Commit(ctx))

	r := c2.NewAutoReleaser()
	held, err := c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.NotNil(t, held)

	mod, err := c1.AcquireTableForModification(ctx, tbl.ID)
	require.NoError(t, err)
	mod.Name = "t2"
	require.NoError(t, c1.Update(ctx, mod))
	require.NoError(t, c1.Commit(ctx))

	// The version c2 holds is left untouched.
	require.Equal(t, tbl, held)
	require.False(t, env.sc.Available(ddobj.PartitionAbstractTable, ddobj.MakeItemNameKey(s.ID, "t1")))
	r.Release()

	got, err := c2.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = c2.AcquireTable(ctx, "s", "t2")
	require.NoError(t, err)
	require.Equal(t, mod, got)
	require.NoError(t, c2.Commit(ctx))
	require.Equal(t, 1, env.elements(ddobj.PartitionAbstractTable))
}

func TestClientReadBackEveryKind(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	s := createSchema(t, c, "s")
	objs := []ddobj.Object{
		&ddobj.Tablespace{Name: "ts", Engine: "InnoDB", Files: []string{"ts.ibd"}},
		&ddobj.Charset{ID: 45, Name: "latin9", DefaultCollationID: 46, MBMaxLen: 1},
		&ddobj.Collation{ID: 46, Name: "latin9_bin", CharsetID: 45, IsDefault: true, PadAttribute: "PAD SPACE"},
		&ddobj.Table{
			Name: "t", SchemaID: s.ID, Engine: "InnoDB", SEPrivateID: 9,
			Columns: []ddobj.Column{{Name: "a", Type: "int"}},
		},
		&ddobj.View{
			Name: "v", SchemaID: s.ID, Definition: "SELECT 1 AS a",
			Columns: []ddobj.Column{{Name: "a", Type: "int"}},
		},
		&ddobj.Event{Name: "e", SchemaID: s.ID, Definition: "DELETE FROM t", IntervalSeconds: 60, Enabled: true},
		&ddobj.Function{
			Name: "f", SchemaID: s.ID, Definition: "RETURN x", ReturnType: "int",
			Parameters: []ddobj.Parameter{{Name: "x", Type: "int", Mode: ddobj.ParameterIn}},
		},
		&ddobj.Procedure{Name: "p", SchemaID: s.ID, Definition: "BEGIN END"},
		&ddobj.SpatialReferenceSystem{
			ID: 4326, Name: "WGS 84", Organization: "EPSG", OrganizationCoordsysID: 4326,
			Definition: "GEOGCS[\"WGS 84\"]",
		},
	}
	for _, obj := range objs {
		require.NoError(t, c.Store(ctx, obj))
	}
	require.NoError(t, c.Commit(ctx))

	env.sc.Reset()
	for _, p := range ddobj.AllPartitions {
		require.Equal(t, 0, env.elements(p), "%s", p)
	}
	for _, obj := range append([]ddobj.Object{s}, objs...) {
		p := obj.Kind().Partition()
		got, err := c.Acquire(ctx, p, ddobj.MakeIDKey(obj.GetID()))
		require.NoError(t, err)
		require.Equal(t, obj, got, "%s", obj)
		require.NotSame(t, obj, got)
		if k, ok := ddobj.KeyOf(obj, ddobj.NameKeyType); ok {
			byName, err := c.Acquire(ctx, p, k)
			require.NoError(t, err)
			require.Same(t, got, byName, "%s", obj)
		}
	}
}

func TestClientRollback(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	s := createSchema(t, c, "s")

	tbl := &ddobj.Table{Name: "t1", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, c.Store(ctx, tbl))
	obj, err := c.AcquireUncachedUncommitted(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(tbl.ID))
	require.NoError(t, err)
	require.Equal(t, tbl, obj)
	c.Rollback(ctx)

	got, err := c.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Nil(t, got)
	obj, err = c.AcquireUncached(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(tbl.ID),
		isolation.ReadCommitted)
	require.NoError(t, err)
	require.Nil(t, obj)

	// A rolled back drop reappears.
	got2, err := c.AcquireSchema(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, c.Drop(ctx, got2))
	c.Rollback(ctx)
	got2, err = c.AcquireSchema(ctx, "s")
	require.NoError(t, err)
	require.Equal(t, s, got2)
}

func TestClientReadAfterReset(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)

	r := c.NewAutoReleaser()
	s := createSchema(t, c, "s")
	tbl := &ddobj.Table{
		Name: "t1", SchemaID: s.ID, Engine: "InnoDB", SEPrivateID: 77,
		Columns: []ddobj.Column{{Name: "a", Type: "int"}},
	}
	require.NoError(t, c.Store(ctx, tbl))
	require.NoError(t, c.Commit(ctx))
	require.Equal(t, 1, env.elements(ddobj.PartitionAbstractTable))
	r.Release()

	env.sc.Reset()
	require.Equal(t, 0, env.elements(ddobj.PartitionAbstractTable))

	got, err := c.AcquireTableBySEPrivateID(ctx, "InnoDB", 77)
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	byName, err := c.AcquireTable(ctx, "s", "t1")
	require.NoError(t, err)
	require.Same(t, got, byName)
	unc, err := c.AcquireUncachedTableBySEPrivateID(ctx, "InnoDB", 77)
	require.NoError(t, err)
	require.Equal(t, tbl, unc)
	require.NotSame(t, got, unc)
}

func TestAutoReleaser(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	createSchema(t, c, "s")
	// The commit released the schema into the shared cache.
	require.Equal(t, 1, env.elements(ddobj.PartitionSchema))
	c.Invalidate(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("s"))
	require.Equal(t, 0, env.elements(ddobj.PartitionSchema))

	outer := c.NewAutoReleaser()
	inner := c.NewAutoReleaser()
	require.Panics(t, outer.Release)

	s, err := c.AcquireSchema(ctx, "s")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NoError(t, inner.TransferRelease(s))
	require.Error(t, inner.TransferRelease(s))
	inner.Release()
	require.Panics(t, inner.Release)

	// The enclosing scope still holds the schema.
	env.sc.Reset()
	require.Equal(t, 1, env.elements(ddobj.PartitionSchema))
	again, err := c.AcquireSchema(ctx, "s")
	require.NoError(t, err)
	require.Same(t, s, again)

	outer.Release()
	env.sc.Reset()
	require.Equal(t, 0, env.elements(ddobj.PartitionSchema))
}

func TestClientClose(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)

	c := client.New(env.sc, env.a, mdl.AllowAll{})
	require.NoError(t, c.Store(ctx, &ddobj.Schema{Name: "s"}))
	err := c.Close(ctx)
	require.True(t, errors.HasAssertionFailure(err), "%v", err)

	c = client.New(env.sc, env.a, mdl.AllowAll{})
	got, err := c.AcquireSchema(ctx, "s")
	require.NoError(t, err)
	require.Nil(t, got)
	c.NewAutoReleaser()
	err = c.Close(ctx)
	require.True(t, errors.HasAssertionFailure(err), "%v", err)
	require.NoError(t, c.Close(ctx))
}

func TestClientWrongType(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	s := createSchema(t, c, "s")
	v := &ddobj.View{Name: "v", SchemaID: s.ID, Definition: "SELECT 1"}
	require.NoError(t, c.Store(ctx, v))
	require.NoError(t, c.Commit(ctx))

	_, err := c.AcquireTableByID(ctx, v.ID)
	require.True(t, errors.Is(err, client.ErrWrongObjectType), "%v", err)
	tbl, err := c.AcquireTable(ctx, "s", "v")
	require.NoError(t, err)
	require.Nil(t, tbl)
	got, err := c.AcquireView(ctx, "s", "v")
	require.NoError(t, err)
	require.Equal(t, v, got)
	abs, err := c.AcquireAbstractTable(ctx, "s", "v")
	require.NoError(t, err)
	require.Same(t, got, abs)

	// Functions and procedures share a partition but not names.
	f := &ddobj.Function{Name: "r", SchemaID: s.ID, Definition: "RETURN 1", ReturnType: "int"}
	require.NoError(t, c.Store(ctx, f))
	require.NoError(t, c.Commit(ctx))
	p, err := c.AcquireProcedure(ctx, "s", "r")
	require.NoError(t, err)
	require.Nil(t, p)
	gotF, err := c.AcquireFunction(ctx, "s", "r")
	require.NoError(t, err)
	require.Equal(t, f, gotF)
}

func TestClientLocks(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	locks := &mdl.Tracker{}
	c := client.New(env.sc, env.a, locks)
	defer func() { require.NoError(t, c.Close(ctx)) }()

	s := &ddobj.Schema{Name: "s"}
	err := c.Store(ctx, s)
	require.True(t, errors.Is(err, client.ErrNotLocked), "%v", err)
	sk, _ := mdl.KeyFor(s)
	locks.Acquire(sk, mdl.Exclusive)
	require.NoError(t, c.Store(ctx, s))
	require.NoError(t, c.Commit(ctx))

	tbl := &ddobj.Table{Name: "t", SchemaID: s.ID, Engine: "InnoDB"}
	err = c.Store(ctx, tbl)
	require.True(t, errors.Is(err, client.ErrNotLocked), "%v", err)
	tk, _ := mdl.KeyFor(tbl)
	locks.Acquire(tk, mdl.Shared)
	err = c.Store(ctx, tbl)
	require.True(t, errors.Is(err, client.ErrNotLocked), "%v", err)
	locks.Acquire(tk, mdl.Exclusive)
	require.NoError(t, c.Store(ctx, tbl))
	require.NoError(t, c.Commit(ctx))

	locks.ReleaseAll()
	_, err = c.AcquireSchema(ctx, "s")
	require.True(t, errors.Is(err, client.ErrNotLocked), "%v", err)
	locks.Acquire(sk, mdl.IntentionExclusive)
	locks.Acquire(tk, mdl.Shared)
	got, err := c.AcquireTable(ctx, "s", "t")
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	_, err = c.AcquireTableForModification(ctx, tbl.ID)
	require.True(t, errors.Is(err, client.ErrNotLocked), "%v", err)

	// Charsets are not protected by metadata locks.
	cs := &ddobj.Charset{ID: 8, Name: "latin1", DefaultCollationID: 8, MBMaxLen: 1}
	require.NoError(t, c.Store(ctx, cs))
	require.NoError(t, c.Commit(ctx))
	got2, err := c.AcquireCharset(ctx, "latin1")
	require.NoError(t, err)
	require.Equal(t, cs, got2)
}

func TestFetchSchemaComponentNames(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)
	s := createSchema(t, c, "s")
	other := createSchema(t, c, "other")

	b := &ddobj.Table{Name: "b", SchemaID: s.ID, Engine: "InnoDB"}
	for _, o := range []ddobj.Object{
		&ddobj.Table{Name: "a", SchemaID: s.ID, Engine: "InnoDB"},
		b,
		&ddobj.View{Name: "c", SchemaID: s.ID, Definition: "SELECT 1"},
		&ddobj.Table{Name: "x", SchemaID: other.ID, Engine: "InnoDB"},
	} {
		require.NoError(t, c.Store(ctx, o))
	}
	require.NoError(t, c.Commit(ctx))

	require.NoError(t, c.Store(ctx, &ddobj.Table{Name: "d", SchemaID: s.ID, Engine: "InnoDB"}))
	require.NoError(t, c.Drop(ctx, b))

	names, err := c.FetchSchemaComponentNames(ctx, s, ddobj.KindTable)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "d"}, names)
	names, err = c.FetchSchemaComponentNames(ctx, s, ddobj.KindView)
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, names)
	_, err = c.FetchSchemaComponentNames(ctx, s, ddobj.KindSchema)
	require.Error(t, err)
	c.Rollback(ctx)

	names, err = c.FetchSchemaComponentNames(ctx, s, ddobj.KindTable)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestClientStats(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	env := newTestEnv(t)
	c := env.client(t)

	st := &ddobj.TableStat{Schema: "s", Table: "t", Rows: 100, DataLength: 4096}
	require.NoError(t, c.StoreStat(ctx, st))
	got, err := c.FetchStat(ctx, st.StatKey())
	require.NoError(t, err)
	require.Equal(t, st, got)
	require.NoError(t, c.Commit(ctx))

	other := env.client(t)
	got, err = other.FetchStat(ctx, st.StatKey())
	require.NoError(t, err)
	require.Equal(t, st, got)

	require.NoError(t, c.DropStat(ctx, st))
	require.NoError(t, c.Commit(ctx))
	got, err = other.FetchStat(ctx, st.StatKey())
	require.NoError(t, err)
	require.Nil(t, got)

	require.Error(t, c.Store(ctx, st))
}
