// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package client implements the dictionary client, the transactional view
// of the data dictionary a session works through.
//
// A Client resolves lookups through three registries before falling back
// to the shared cache: the objects the transaction wrote (uncommitted),
// the objects it dropped (tombstones, by id), and the shared cache
// elements it already holds (committed). Shared objects handed out are
// read-only and stay valid until the AutoReleaser scope that acquired them
// is released.
package client

import (
	"context"
	"sort"

	"github.com/cockroachdb/ddcache/pkg/dd/cache"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/dd/mdl"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
)

// ErrWrongObjectType is returned when an object looked up by id turns out
// to be of a different kind than requested.
var ErrWrongObjectType = errors.New("dictionary object has the wrong type")

// ErrNotLocked is returned when the session does not hold the metadata
// lock an operation requires.
var ErrNotLocked = errors.New("dictionary object is not locked")

// Client is the dictionary view of one session. It is not safe for
// concurrent use.
type Client struct {
	cache   *cache.SharedCache
	adapter *storage.Adapter
	locks   mdl.Checker

	committed   *cache.Registry
	uncommitted *cache.Registry
	dropped     *cache.Registry

	defaultReleaser *AutoReleaser
	current         *AutoReleaser

	// txn is opened on the first write.
	txn    storage.WriteTxn
	closed bool
}

// New returns a client working on sc and a. Lock requirements are checked
// against locks.
func New(sc *cache.SharedCache, a *storage.Adapter, locks mdl.Checker) *Client {
	c := &Client{
		cache:       sc,
		adapter:     a,
		locks:       locks,
		committed:   cache.NewRegistry(),
		uncommitted: cache.NewRegistry(),
		dropped:     cache.NewRegistry(),
	}
	c.defaultReleaser = c.NewAutoReleaser()
	return c
}

// Close releases everything the client holds. Closing a client with an
// open transaction or with inner scopes still open rolls the transaction
// back and reports an assertion failure.
func (c *Client) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	var err error
	for c.current != c.defaultReleaser {
		err = errors.CombineErrors(err,
			errors.AssertionFailedf("client closed with an unreleased auto releaser"))
		c.current.Release()
	}
	if !c.uncommitted.Empty() || !c.dropped.Empty() || c.txn != nil {
		err = errors.CombineErrors(err,
			errors.AssertionFailedf("client closed with an unfinished transaction"))
		c.Rollback(ctx)
	}
	c.defaultReleaser.releaseElements()
	c.closed = true
	return err
}

// writeTxn returns the storage transaction of the client, opening it if
// needed. It returns nil while the dictionary lives in the core registry.
func (c *Client) writeTxn(ctx context.Context) (storage.WriteTxn, error) {
	if c.adapter.CoreMode() {
		return nil, nil
	}
	if c.txn == nil {
		txn, err := c.adapter.OpenWriteTxn(ctx)
		if err != nil {
			return nil, err
		}
		c.txn = txn
	}
	return c.txn, nil
}

func (c *Client) checkReadLocked(obj ddobj.Object) error {
	if !c.locks.IsReadLocked(obj) {
		return errors.Wrapf(ErrNotLocked, "reading %s", obj)
	}
	return nil
}

func (c *Client) checkWriteLocked(obj ddobj.Object) error {
	if !c.locks.IsWriteLocked(obj) {
		return errors.Wrapf(ErrNotLocked, "modifying %s", obj)
	}
	return nil
}

// Acquire returns the object registered under key in partition p as seen
// by the transaction, or nil if there is none. The object is shared and
// must not be modified.
func (c *Client) Acquire(ctx context.Context, p ddobj.Partition, key ddobj.Key) (ddobj.Object, error) {
	obj, err := c.acquire(ctx, p, key)
	if err != nil || obj == nil {
		return nil, err
	}
	if err := c.checkReadLocked(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (c *Client) acquire(ctx context.Context, p ddobj.Partition, key ddobj.Key) (ddobj.Object, error) {
	if obj := c.uncommitted.GetObject(p, key); obj != nil {
		return obj, nil
	}
	if c.dropped.Get(p, key) != nil {
		return nil, nil
	}
	if obj := c.committed.GetObject(p, key); obj != nil {
		if c.changedLocally(p, obj) {
			return nil, nil
		}
		return obj, nil
	}

	e, err := c.cache.Get(ctx, p, key)
	if err != nil {
		return nil, err
	}
	if e.IsNegative() {
		c.cache.Release(e)
		return nil, nil
	}
	obj := e.Object()
	if c.changedLocally(p, obj) {
		c.cache.Release(e)
		return nil, nil
	}
	if other := c.committed.Get(p, ddobj.MakeIDKey(obj.GetID())); other != nil {
		c.cache.Release(e)
		return other.Object(), nil
	}
	if err := c.committed.Put(e); err != nil {
		c.cache.Release(e)
		return nil, err
	}
	if err := c.current.add(e); err != nil {
		c.committed.Remove(e)
		c.cache.Release(e)
		return nil, err
	}
	return obj, nil
}

// changedLocally returns true if the transaction updated or dropped the
// committed object obj. A lookup that reaches obj by a key other than its
// id then no longer refers to it.
func (c *Client) changedLocally(p ddobj.Partition, obj ddobj.Object) bool {
	idKey := ddobj.MakeIDKey(obj.GetID())
	return c.uncommitted.Get(p, idKey) != nil || c.dropped.Get(p, idKey) != nil
}

// acquireAs is Acquire with a type assertion. Only lookups by id report a
// mismatch as an error; a name shared by different kinds simply does not
// match.
func acquireAs[T ddobj.Object](
	ctx context.Context, c *Client, p ddobj.Partition, key ddobj.Key,
) (T, error) {
	var zero T
	obj, err := c.Acquire(ctx, p, key)
	if err != nil || obj == nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		if key.KeyType() == ddobj.IDKeyType {
			return zero, errors.Wrapf(ErrWrongObjectType, "%s is a %s, not a %T", key, obj.Kind(), zero)
		}
		return zero, nil
	}
	return t, nil
}

// AcquireSchema returns the schema with the given name.
func (c *Client) AcquireSchema(ctx context.Context, name string) (*ddobj.Schema, error) {
	return acquireAs[*ddobj.Schema](ctx, c, ddobj.PartitionSchema, ddobj.MakeGlobalNameKey(name))
}

// AcquireSchemaByID returns the schema with the given id.
func (c *Client) AcquireSchemaByID(ctx context.Context, id ddobj.ID) (*ddobj.Schema, error) {
	return acquireAs[*ddobj.Schema](ctx, c, ddobj.PartitionSchema, ddobj.MakeIDKey(id))
}

// schemaItemKey resolves schema and returns the name key of name within it.
func (c *Client) schemaItemKey(
	ctx context.Context, schema string, fn func(schemaID ddobj.ID) ddobj.NameKey,
) (ddobj.NameKey, bool, error) {
	s, err := c.AcquireSchema(ctx, schema)
	if err != nil || s == nil {
		return ddobj.NameKey{}, false, err
	}
	return fn(s.ID), true, nil
}

func acquireSchemaItem[T ddobj.Object](
	ctx context.Context, c *Client, p ddobj.Partition, schema string, fn func(ddobj.ID) ddobj.NameKey,
) (T, error) {
	var zero T
	key, ok, err := c.schemaItemKey(ctx, schema, fn)
	if err != nil || !ok {
		return zero, err
	}
	return acquireAs[T](ctx, c, p, key)
}

func itemKey(name string) func(ddobj.ID) ddobj.NameKey {
	return func(schemaID ddobj.ID) ddobj.NameKey { return ddobj.MakeItemNameKey(schemaID, name) }
}

func routineKey(kind ddobj.Kind, name string) func(ddobj.ID) ddobj.NameKey {
	return func(schemaID ddobj.ID) ddobj.NameKey { return ddobj.MakeRoutineNameKey(schemaID, kind, name) }
}

// AcquireTable returns the base table schema.name. It returns nil if the
// name belongs to a view.
func (c *Client) AcquireTable(ctx context.Context, schema, name string) (*ddobj.Table, error) {
	return acquireSchemaItem[*ddobj.Table](ctx, c, ddobj.PartitionAbstractTable, schema, itemKey(name))
}

// AcquireView returns the view schema.name.
func (c *Client) AcquireView(ctx context.Context, schema, name string) (*ddobj.View, error) {
	return acquireSchemaItem[*ddobj.View](ctx, c, ddobj.PartitionAbstractTable, schema, itemKey(name))
}

// AcquireAbstractTable returns the table or view schema.name.
func (c *Client) AcquireAbstractTable(ctx context.Context, schema, name string) (ddobj.Object, error) {
	return acquireSchemaItem[ddobj.Object](ctx, c, ddobj.PartitionAbstractTable, schema, itemKey(name))
}

// AcquireTableByID returns the base table with the given id. It fails with
// ErrWrongObjectType if the id belongs to a view.
func (c *Client) AcquireTableByID(ctx context.Context, id ddobj.ID) (*ddobj.Table, error) {
	return acquireAs[*ddobj.Table](ctx, c, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(id))
}

// AcquireViewByID returns the view with the given id.
func (c *Client) AcquireViewByID(ctx context.Context, id ddobj.ID) (*ddobj.View, error) {
	return acquireAs[*ddobj.View](ctx, c, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(id))
}

// AcquireTableBySEPrivateID returns the table that engine stores under its
// own id privateID.
func (c *Client) AcquireTableBySEPrivateID(
	ctx context.Context, engine string, privateID uint64,
) (*ddobj.Table, error) {
	return acquireAs[*ddobj.Table](ctx, c, ddobj.PartitionAbstractTable,
		ddobj.MakeSEPrivateIDKey(engine, privateID))
}

// AcquireTablespace returns the tablespace with the given name.
func (c *Client) AcquireTablespace(ctx context.Context, name string) (*ddobj.Tablespace, error) {
	return acquireAs[*ddobj.Tablespace](ctx, c, ddobj.PartitionTablespace, ddobj.MakeGlobalNameKey(name))
}

// AcquireCharset returns the character set with the given name.
func (c *Client) AcquireCharset(ctx context.Context, name string) (*ddobj.Charset, error) {
	return acquireAs[*ddobj.Charset](ctx, c, ddobj.PartitionCharset, ddobj.MakeGlobalNameKey(name))
}

// AcquireCollation returns the collation with the given name.
func (c *Client) AcquireCollation(ctx context.Context, name string) (*ddobj.Collation, error) {
	return acquireAs[*ddobj.Collation](ctx, c, ddobj.PartitionCollation, ddobj.MakeGlobalNameKey(name))
}

// AcquireEvent returns the event schema.name.
func (c *Client) AcquireEvent(ctx context.Context, schema, name string) (*ddobj.Event, error) {
	return acquireSchemaItem[*ddobj.Event](ctx, c, ddobj.PartitionEvent, schema, itemKey(name))
}

// AcquireFunction returns the stored function schema.name.
func (c *Client) AcquireFunction(ctx context.Context, schema, name string) (*ddobj.Function, error) {
	return acquireSchemaItem[*ddobj.Function](ctx, c, ddobj.PartitionRoutine, schema,
		routineKey(ddobj.KindFunction, name))
}

// AcquireProcedure returns the stored procedure schema.name.
func (c *Client) AcquireProcedure(ctx context.Context, schema, name string) (*ddobj.Procedure, error) {
	return acquireSchemaItem[*ddobj.Procedure](ctx, c, ddobj.PartitionRoutine, schema,
		routineKey(ddobj.KindProcedure, name))
}

// AcquireSpatialReferenceSystem returns the spatial reference system with
// the given id.
func (c *Client) AcquireSpatialReferenceSystem(
	ctx context.Context, id ddobj.ID,
) (*ddobj.SpatialReferenceSystem, error) {
	return acquireAs[*ddobj.SpatialReferenceSystem](ctx, c, ddobj.PartitionSpatialReferenceSystem,
		ddobj.MakeIDKey(id))
}

// AcquireForModification returns a private copy of the object registered
// under key, which the caller may modify and pass to Update. The caller
// must hold a lock that allows modifying the object.
func (c *Client) AcquireForModification(
	ctx context.Context, p ddobj.Partition, key ddobj.Key,
) (ddobj.Object, error) {
	obj, err := c.acquire(ctx, p, key)
	if err != nil || obj == nil {
		return nil, err
	}
	if err := c.checkWriteLocked(obj); err != nil {
		return nil, err
	}
	return obj.Clone(), nil
}

// AcquireTableForModification is AcquireForModification for a table
// looked up by id.
func (c *Client) AcquireTableForModification(ctx context.Context, id ddobj.ID) (*ddobj.Table, error) {
	obj, err := c.AcquireForModification(ctx, ddobj.PartitionAbstractTable, ddobj.MakeIDKey(id))
	if err != nil || obj == nil {
		return nil, err
	}
	t, ok := obj.(*ddobj.Table)
	if !ok {
		return nil, errors.Wrapf(ErrWrongObjectType, "%s is not a table", obj)
	}
	return t, nil
}

// AcquireUncached reads the object registered under key directly from
// storage at the given isolation level, bypassing the shared cache and the
// transaction's own writes. The caller owns the result.
func (c *Client) AcquireUncached(
	ctx context.Context, p ddobj.Partition, key ddobj.Key, level isolation.Level,
) (ddobj.Object, error) {
	obj, err := c.cache.GetUncached(ctx, p, key, level)
	if err != nil || obj == nil {
		return nil, err
	}
	if err := c.checkReadLocked(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// AcquireUncachedUncommitted is like AcquireUncached but reads within the
// transaction of the client, observing its writes.
func (c *Client) AcquireUncachedUncommitted(
	ctx context.Context, p ddobj.Partition, key ddobj.Key,
) (ddobj.Object, error) {
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return nil, err
	}
	var obj ddobj.Object
	if txn == nil {
		obj, err = c.adapter.Get(ctx, p, key, isolation.ReadUncommitted)
	} else {
		obj, err = c.adapter.GetInTxn(ctx, txn, p, key)
	}
	if err != nil || obj == nil {
		return nil, err
	}
	if err := c.checkReadLocked(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// AcquireUncachedTableBySEPrivateID reads the table that engine stores
// under privateID directly from storage.
func (c *Client) AcquireUncachedTableBySEPrivateID(
	ctx context.Context, engine string, privateID uint64,
) (*ddobj.Table, error) {
	obj, err := c.AcquireUncached(ctx, ddobj.PartitionAbstractTable,
		ddobj.MakeSEPrivateIDKey(engine, privateID), isolation.ReadUncommitted)
	if err != nil || obj == nil {
		return nil, err
	}
	t, ok := obj.(*ddobj.Table)
	if !ok {
		return nil, errors.Wrapf(ErrWrongObjectType, "%s is not a table", obj)
	}
	return t, nil
}

// registerUncommitted makes obj the version of its id visible to the
// transaction. The client takes ownership of obj.
func (c *Client) registerUncommitted(obj ddobj.Object) error {
	p := obj.Kind().Partition()
	idKey := ddobj.MakeIDKey(obj.GetID())
	if e := c.uncommitted.Get(p, idKey); e != nil {
		c.uncommitted.Remove(e)
	}
	if e := c.dropped.Get(p, idKey); e != nil {
		c.dropped.Remove(e)
	}
	return c.uncommitted.Put(cache.NewElement(obj))
}

// Store persists a new object. Its id must be unset, except for kinds with
// externally assigned ids; storage assigns the id as a side effect.
func (c *Client) Store(ctx context.Context, obj ddobj.Object) error {
	if !obj.Kind().IsCached() {
		return errors.AssertionFailedf("%s must be stored with StoreStat", obj)
	}
	if obj.GetID() != ddobj.InvalidID && !obj.Kind().HasPresetID() {
		return errors.AssertionFailedf("cannot store %s which already has an id", obj)
	}
	if err := c.checkWriteLocked(obj); err != nil {
		return err
	}
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return err
	}
	if err := c.adapter.Store(ctx, txn, obj); err != nil {
		return err
	}
	log.VEventf(ctx, 2, "stored %s", obj)
	return c.registerUncommitted(obj.Clone())
}

// Update persists a new version of an existing object. obj must carry the
// id of the object it replaces.
func (c *Client) Update(ctx context.Context, obj ddobj.Object) error {
	if obj.GetID() == ddobj.InvalidID {
		return errors.AssertionFailedf("cannot update %s which has no id", obj)
	}
	if err := c.checkWriteLocked(obj); err != nil {
		return err
	}
	p := obj.Kind().Partition()
	idKey := ddobj.MakeIDKey(obj.GetID())
	prev := c.uncommitted.GetObject(p, idKey)
	if prev == nil {
		var err error
		if prev, err = c.acquire(ctx, p, idKey); err != nil {
			return err
		}
	}
	if prev == nil {
		return errors.AssertionFailedf("cannot update %s which does not exist", obj)
	}
	if prev.Kind() != obj.Kind() {
		return errors.Wrapf(ErrWrongObjectType, "cannot update %s to %s", prev, obj)
	}
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return err
	}
	if err := c.adapter.Store(ctx, txn, obj); err != nil {
		return err
	}
	if prev.GetName() != obj.GetName() {
		if err := c.adapter.DropSDIAfterUpdate(ctx, txn, prev, obj); err != nil {
			return err
		}
	}
	log.VEventf(ctx, 2, "updated %s", obj)
	return c.registerUncommitted(obj.Clone())
}

// Drop deletes an object. The object disappears from the shared cache
// right away; the exclusive lock the caller holds keeps other sessions from
// using it.
func (c *Client) Drop(ctx context.Context, obj ddobj.Object) error {
	if !obj.Kind().IsCached() {
		return errors.AssertionFailedf("%s must be dropped with DropStat", obj)
	}
	if err := c.checkWriteLocked(obj); err != nil {
		return err
	}
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return err
	}
	if err := c.adapter.Drop(ctx, txn, obj); err != nil {
		return err
	}

	p := obj.Kind().Partition()
	idKey := ddobj.MakeIDKey(obj.GetID())
	if e := c.committed.Get(p, idKey); e != nil {
		if r := c.current.holding(e); r != nil {
			r.reg.Remove(e)
		}
		c.committed.Remove(e)
		c.cache.Drop(e)
	} else {
		c.cache.DropIfPresent(p, idKey)
	}
	if e := c.uncommitted.Get(p, idKey); e != nil {
		c.uncommitted.Remove(e)
	}
	if c.dropped.Get(p, idKey) == nil {
		if err := c.dropped.Put(cache.NewTombstone(obj.Clone())); err != nil {
			return err
		}
	}
	log.VEventf(ctx, 2, "dropped %s", obj)
	return nil
}

// Invalidate evicts the object registered under key from the shared cache,
// so that the next lookup reads it from storage again.
func (c *Client) Invalidate(p ddobj.Partition, key ddobj.Key) {
	if e := c.committed.Get(p, key); e != nil {
		if r := c.current.holding(e); r != nil {
			r.reg.Remove(e)
		}
		c.committed.Remove(e)
		c.cache.Release(e)
	}
	c.cache.DropIfPresent(p, key)
}

// Commit makes the writes of the transaction durable and visible to other
// sessions. The transaction registries are cleared whether or not the
// commit succeeds, and objects acquired outside of an AutoReleaser are
// released.
func (c *Client) Commit(ctx context.Context) error {
	defer c.clearTxnState()
	if c.txn != nil {
		txn := c.txn
		c.txn = nil
		if err := txn.Commit(ctx); err != nil {
			return errors.Wrap(err, "committing dictionary transaction")
		}
	}

	var err error
	for _, p := range ddobj.AllPartitions {
		_ = c.dropped.Iterate(p, func(e *cache.Element) error {
			k, _ := e.IDKey()
			c.cache.DropIfPresent(p, k)
			return nil
		})
		_ = c.uncommitted.Iterate(p, func(e *cache.Element) error {
			err = errors.CombineErrors(err, c.publish(ctx, p, e.Object()))
			return nil
		})
	}
	if err != nil {
		return err
	}
	log.VEventf(ctx, 2, "committed dictionary transaction")
	return nil
}

// publish makes obj the shared version of its id and keeps holding it.
func (c *Client) publish(ctx context.Context, p ddobj.Partition, obj ddobj.Object) error {
	idKey := ddobj.MakeIDKey(obj.GetID())
	if stale := c.committed.Get(p, idKey); stale != nil {
		r := c.current.holding(stale)
		if r != nil {
			r.reg.Remove(stale)
		}
		c.committed.Remove(stale)
		e, err := c.cache.Replace(stale, obj)
		if err == nil {
			if r == nil {
				r = c.current
			}
			return errors.CombineErrors(c.committed.Put(e), r.add(e))
		}
		log.Warningf(ctx, "cannot replace %s in the shared cache: %v", stale, err)
		c.cache.Release(stale)
	}
	c.cache.DropIfPresent(p, idKey)
	e, err := c.cache.Put(obj)
	if err != nil {
		return err
	}
	if err := c.committed.Put(e); err != nil {
		c.cache.Release(e)
		return err
	}
	return c.current.add(e)
}

// Rollback discards the writes of the transaction and releases the
// objects acquired outside of an AutoReleaser. The shared cache is left
// alone; dropped objects are read back from storage on their next lookup.
func (c *Client) Rollback(ctx context.Context) {
	if c.txn != nil {
		c.txn.Rollback()
		c.txn = nil
	}
	c.clearTxnState()
	log.VEventf(ctx, 2, "rolled back dictionary transaction")
}

// clearTxnState ends the transaction. Committed objects acquired in the
// outermost scope are released, so that the next transaction observes what
// other sessions committed meanwhile. Open inner scopes keep theirs.
func (c *Client) clearTxnState() {
	c.uncommitted.ClearAll()
	c.dropped.ClearAll()
	c.defaultReleaser.releaseElements()
}

// FetchSchemaComponentNames returns the sorted names of the objects of the
// given kind in schema, as seen by the transaction.
func (c *Client) FetchSchemaComponentNames(
	ctx context.Context, schema *ddobj.Schema, kind ddobj.Kind,
) ([]string, error) {
	if !kind.IsSchemaScoped() {
		return nil, errors.AssertionFailedf("%s is not schema scoped", kind)
	}
	if err := c.checkReadLocked(schema); err != nil {
		return nil, err
	}
	p := kind.Partition()
	entries, err := c.adapter.ScanNames(ctx, p, schema.ID)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ne := range entries {
		idKey := ddobj.MakeIDKey(ne.ID)
		if ne.Kind != kind || c.uncommitted.Get(p, idKey) != nil || c.dropped.Get(p, idKey) != nil {
			continue
		}
		names = append(names, ne.Key.Name)
	}
	_ = c.uncommitted.Iterate(p, func(e *cache.Element) error {
		obj := e.Object()
		if s, ok := obj.(ddobj.SchemaScoped); ok && obj.Kind() == kind && s.GetSchemaID() == schema.ID {
			names = append(names, obj.GetName())
		}
		return nil
	})
	sort.Strings(names)
	return names, nil
}

// StoreStat persists a statistics object, overwriting the previous one
// with the same key.
func (c *Client) StoreStat(ctx context.Context, st ddobj.Stat) error {
	if err := st.Validate(); err != nil {
		return err
	}
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return err
	}
	return c.adapter.Store(ctx, txn, st)
}

// FetchStat reads the statistics object under key, or nil.
func (c *Client) FetchStat(ctx context.Context, key ddobj.StatKey) (ddobj.Stat, error) {
	var obj ddobj.Object
	var err error
	if c.txn != nil {
		obj, err = c.adapter.GetInTxn(ctx, c.txn, ddobj.PartitionInvalid, key)
	} else {
		obj, err = c.cache.GetUncached(ctx, ddobj.PartitionInvalid, key, isolation.ReadCommitted)
	}
	if err != nil || obj == nil {
		return nil, err
	}
	st, ok := obj.(ddobj.Stat)
	if !ok {
		return nil, errors.AssertionFailedf("statistics key %s holds %s", key, obj)
	}
	return st, nil
}

// DropStat deletes a statistics object.
func (c *Client) DropStat(ctx context.Context, st ddobj.Stat) error {
	txn, err := c.writeTxn(ctx)
	if err != nil {
		return err
	}
	return c.adapter.Drop(ctx, txn, st)
}
