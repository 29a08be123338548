// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/dd/sdi"
	"github.com/cockroachdb/ddcache/pkg/dd/stage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage/pebblestore"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// countingStore records how many transactions were opened.
type countingStore struct {
	storage.RecordStore
	reads, writes int
}

func (s *countingStore) OpenReadTxn(ctx context.Context, l isolation.Level) (storage.ReadTxn, error) {
	s.reads++
	return s.RecordStore.OpenReadTxn(ctx, l)
}

func (s *countingStore) OpenWriteTxn(ctx context.Context) (storage.WriteTxn, error) {
	s.writes++
	return s.RecordStore.OpenWriteTxn(ctx)
}

func newAdapter(t *testing.T, opts ...storage.Option) (*storage.Adapter, *countingStore) {
	ps, err := pebblestore.OpenInMem(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ps.Close()) })
	cs := &countingStore{RecordStore: ps}
	return storage.NewAdapter(cs, &stage.Tracker{}, opts...), cs
}

func TestAdapterCoreRegistry(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	a, cs := newAdapter(t)
	require.True(t, a.CoreMode())

	s := &ddobj.Schema{Name: "mysql"}
	require.NoError(t, a.Store(ctx, nil, s))
	require.GreaterOrEqual(t, s.ID, ddobj.FirstOID)
	require.Equal(t, ddobj.FirstOID, s.ID)

	got, err := a.Get(ctx, ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("mysql"), isolation.ReadCommitted)
	require.NoError(t, err)
	require.Equal(t, s, got)
	// The caller owns what it gets.
	require.NotSame(t, s, got)
	require.Equal(t, 0, cs.reads+cs.writes)

	// Absence is not an error before the tables exist.
	got, err = a.Get(ctx, ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("nope"), isolation.ReadCommitted)
	require.NoError(t, err)
	require.Nil(t, got)

	tbl := &ddobj.Table{Name: "tables", SchemaID: s.ID, Engine: "InnoDB"}
	require.NoError(t, a.Store(ctx, nil, tbl))
	require.Equal(t, ddobj.FirstOID, tbl.ID)
	require.Equal(t, 1, a.CoreSize(ddobj.PartitionAbstractTable))
	require.Equal(t, tbl.ID, a.CoreGetID(ddobj.PartitionAbstractTable, ddobj.MakeItemNameKey(s.ID, "tables")))

	// Storing an object with an id replaces the registered version.
	renamed := tbl.Clone().(*ddobj.Table)
	renamed.Name = "tables2"
	require.NoError(t, a.Store(ctx, nil, renamed))
	require.Equal(t, 1, a.CoreSize(ddobj.PartitionAbstractTable))
	require.Equal(t, ddobj.InvalidID,
		a.CoreGetID(ddobj.PartitionAbstractTable, ddobj.MakeItemNameKey(s.ID, "tables")))

	var buf strings.Builder
	require.NoError(t, a.Dump(&buf))
	require.Equal(t, "abstract_table:\n"+
		"  table 10001 \"tables2\" schema=10001 engine=InnoDB\n"+
		"schema:\n"+
		"  schema 10001 \"mysql\"\n", buf.String())

	require.NoError(t, a.Drop(ctx, nil, renamed))
	require.Equal(t, 0, a.CoreSize(ddobj.PartitionAbstractTable))

	a.EraseAll()
	require.Equal(t, 0, a.CoreSize(ddobj.PartitionSchema))
	s2 := &ddobj.Schema{Name: "again"}
	require.NoError(t, a.Store(ctx, nil, s2))
	require.Equal(t, ddobj.FirstOID, s2.ID)

	require.True(t, errors.HasAssertionFailure(a.Store(ctx, nil, &ddobj.TableStat{Schema: "s", Table: "t"})))
}

func TestAdapterRealStorage(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	sdiStore := sdi.NewFileStore(fs, "/sdi")
	a, cs := newAdapter(t, storage.WithSDI(sdiStore))
	require.NoError(t, a.Stage().Advance(stage.CreatedTables))
	require.False(t, a.CoreMode())

	// Invalid objects are rejected before anything is written.
	txn, err := a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	err = a.Store(ctx, txn, &ddobj.Table{Name: "t", SchemaID: 1})
	require.ErrorContains(t, err, "has no engine")

	tbl := &ddobj.Table{Name: "t", SchemaID: 1, Engine: "InnoDB"}
	require.NoError(t, a.Store(ctx, txn, tbl))
	require.Equal(t, ddobj.ID(1), tbl.ID)
	require.NoError(t, txn.Commit(ctx))

	// No serialized definition during bootstrap table creation.
	artifacts, err := sdiStore.Scan()
	require.NoError(t, err)
	require.Empty(t, artifacts)

	got, err := a.Get(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(1), isolation.ReadCommitted)
	require.NoError(t, err)
	require.Equal(t, tbl, got)
	require.Equal(t, 1, cs.reads)

	require.NoError(t, a.Stage().Advance(stage.Finished))
	txn, err = a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	renamed := tbl.Clone().(*ddobj.Table)
	renamed.Name = "u"
	require.NoError(t, a.Store(ctx, txn, renamed))
	require.NoError(t, a.DropSDIAfterUpdate(ctx, txn, tbl, renamed))
	require.NoError(t, txn.Commit(ctx))
	artifacts, err = sdiStore.Scan()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Equal(t, "u", artifacts[0].Name)

	entries, err := a.ScanNames(ctx, ddobj.PartitionAbstractTable, 1)
	require.NoError(t, err)
	require.Equal(t, []storage.NameEntry{
		{Key: ddobj.MakeItemNameKey(1, "u"), ID: 1, Kind: ddobj.KindTable},
	}, entries)

	txn, err = a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Drop(ctx, txn, renamed))
	require.NoError(t, txn.Commit(ctx))
	artifacts, err = sdiStore.Scan()
	require.NoError(t, err)
	require.Empty(t, artifacts)
	got, err = a.Get(ctx, ddobj.PartitionAbstractTable, ddobj.MakeItemNameKey(1, "u"), isolation.ReadCommitted)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAdapterSDIFollowsCommit(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	sdiStore := sdi.NewFileStore(afero.NewMemMapFs(), "/sdi")
	a, _ := newAdapter(t, storage.WithSDI(sdiStore))
	require.NoError(t, a.Stage().Advance(stage.Finished))
	scan := func() []string {
		artifacts, err := sdiStore.Scan()
		require.NoError(t, err)
		var names []string
		for _, art := range artifacts {
			names = append(names, art.Name)
		}
		return names
	}

	// Nothing is written before the commit, and nothing after a rollback.
	txn, err := a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	tbl := &ddobj.Table{Name: "t", SchemaID: 1, Engine: "InnoDB"}
	require.NoError(t, a.Store(ctx, txn, tbl))
	require.Empty(t, scan())
	txn.Rollback()
	require.Empty(t, scan())

	txn, err = a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	tbl = &ddobj.Table{Name: "t", SchemaID: 1, Engine: "InnoDB"}
	require.NoError(t, a.Store(ctx, txn, tbl))
	require.NoError(t, txn.Commit(ctx))
	require.Equal(t, []string{"t"}, scan())

	// A rolled back rename and drop leave the artifact in place.
	txn, err = a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	renamed := tbl.Clone().(*ddobj.Table)
	renamed.Name = "u"
	require.NoError(t, a.Store(ctx, txn, renamed))
	require.NoError(t, a.DropSDIAfterUpdate(ctx, txn, tbl, renamed))
	require.NoError(t, a.Drop(ctx, txn, renamed))
	txn.Close()
	require.Equal(t, []string{"t"}, scan())

	// Serialized definitions only change through adapter transactions.
	raw, err := pebblestore.OpenInMem(ctx)
	require.NoError(t, err)
	defer func() { require.NoError(t, raw.Close()) }()
	foreign, err := raw.OpenWriteTxn(ctx)
	require.NoError(t, err)
	defer foreign.Rollback()
	require.True(t, errors.HasAssertionFailure(a.Store(ctx, foreign, tbl.Clone())))
}

func TestAdapterCoreSync(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	a, _ := newAdapter(t)

	// Scaffolding with a synthetic id.
	scaffold := &ddobj.Schema{Name: "mysql"}
	require.NoError(t, a.Store(ctx, nil, scaffold))
	missing := &ddobj.Schema{Name: "ghost"}
	require.NoError(t, a.Store(ctx, nil, missing))

	require.NoError(t, a.Stage().Advance(stage.CreatedTables))
	txn, err := a.OpenWriteTxn(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Store(ctx, txn, &ddobj.Schema{Name: "mysql", DefaultCollationID: 255}))
	require.NoError(t, txn.Commit(ctx))

	key := ddobj.MakeGlobalNameKey("mysql")
	require.NoError(t, a.CoreSync(ctx, key, scaffold))
	require.Equal(t, ddobj.ID(1), a.CoreGetID(ddobj.PartitionSchema, key))
	got, err := a.Get(ctx, ddobj.PartitionSchema, key, isolation.ReadCommitted)
	require.NoError(t, err)
	require.Equal(t, &ddobj.Schema{ID: 1, Name: "mysql", DefaultCollationID: 255}, got)

	err = a.CoreSync(ctx, ddobj.MakeGlobalNameKey("ghost"), missing)
	require.True(t, errors.Is(err, storage.ErrCoreMetadataNotFound), "%v", err)
	// The scaffolding stays in place after a failed sync.
	require.Equal(t, missing.ID, a.CoreGetID(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey("ghost")))
	// The scaffolding was replaced already.
	require.True(t, errors.HasAssertionFailure(a.CoreSync(ctx, key, scaffold)))
}

func TestAdapterFakeStorage(t *testing.T) {
	defer log.Scope(t).Close(t)
	ctx := context.Background()
	a, cs := newAdapter(t, storage.WithFakeStorage())
	require.NoError(t, a.Stage().Advance(stage.Finished))
	require.True(t, a.CoreMode())

	s := &ddobj.Schema{Name: "s"}
	require.NoError(t, a.Store(ctx, nil, s))
	// Drops go by name, so an object without its id still drops.
	require.NoError(t, a.Drop(ctx, nil, &ddobj.Schema{Name: "s"}))
	require.Equal(t, 0, a.CoreSize(ddobj.PartitionSchema))
	require.Equal(t, 0, cs.reads+cs.writes)
	_, err := a.OpenWriteTxn(ctx)
	require.Error(t, err)
}
