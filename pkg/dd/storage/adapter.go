// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package storage connects the dictionary caches to persistent storage.
//
// The Adapter is the single path between the caches and a RecordStore.
// Until bootstrap has created the dictionary tables there is nothing to
// read from, so the Adapter keeps the objects bootstrap needs in an
// in-memory core registry instead and hands out synthetic ids for them.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/ddcache/pkg/dd/cache"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/dd/sdi"
	"github.com/cockroachdb/ddcache/pkg/dd/stage"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/ddcache/pkg/util/syncutil"
	"github.com/cockroachdb/errors"
)

// Adapter reads and writes dictionary objects. It is safe for concurrent
// use.
type Adapter struct {
	store RecordStore
	stage *stage.Tracker
	sdi   sdi.Store
	// fake keeps every object in the core registry forever.
	fake bool

	core struct {
		syncutil.Mutex
		registry *cache.Registry
		nextID   [ddobj.NumPartitions]ddobj.ID
	}
}

var _ cache.Storage = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithFakeStorage makes the Adapter keep all objects in its core registry
// and never touch the record store. Drops go by name.
func WithFakeStorage() Option {
	return func(a *Adapter) { a.fake = true }
}

// WithSDI makes the Adapter maintain serialized definitions in s once
// bootstrap is past table creation.
func WithSDI(s sdi.Store) Option {
	return func(a *Adapter) { a.sdi = s }
}

// NewAdapter returns an Adapter over store whose behavior follows the
// bootstrap stage tracked by st.
func NewAdapter(store RecordStore, st *stage.Tracker, opts ...Option) *Adapter {
	a := &Adapter{store: store, stage: st}
	for _, opt := range opts {
		opt(a)
	}
	a.core.registry = cache.NewRegistry()
	a.resetIDsLocked()
	return a
}

func (a *Adapter) resetIDsLocked() {
	for i := range a.core.nextID {
		a.core.nextID[i] = ddobj.FirstOID
	}
}

// CoreMode returns true while objects are stored in the core registry
// rather than in the record store.
func (a *Adapter) CoreMode() bool {
	return a.fake || !a.stage.AtLeast(stage.CreatedTables)
}

// Stage returns the bootstrap stage tracker of the Adapter.
func (a *Adapter) Stage() *stage.Tracker { return a.stage }

// writesSDI returns true once serialized definitions must be kept in sync.
func (a *Adapter) writesSDI() bool {
	return a.sdi != nil && !a.fake && a.stage.Get() > stage.CreatedTables
}

// OpenWriteTxn opens a write transaction on the record store. Serialized
// definition changes made through it are applied only once it commits.
func (a *Adapter) OpenWriteTxn(ctx context.Context) (WriteTxn, error) {
	if a.fake {
		return nil, errors.AssertionFailedf("no record store transactions with fake storage")
	}
	txn, err := a.store.OpenWriteTxn(ctx)
	if err != nil {
		return nil, err
	}
	return &writeTxn{WriteTxn: txn}, nil
}

// writeTxn queues serialized definition changes until the records they
// describe are committed.
type writeTxn struct {
	WriteTxn
	pending []func(context.Context) error
}

// Commit commits the records, then applies the queued changes. A failed
// change does not stop the others.
func (t *writeTxn) Commit(ctx context.Context) error {
	pending := t.pending
	t.pending = nil
	if err := t.WriteTxn.Commit(ctx); err != nil {
		return err
	}
	var err error
	for _, fn := range pending {
		err = errors.CombineErrors(err, fn(ctx))
	}
	if err != nil {
		return errors.Wrap(err, "applying serialized definitions")
	}
	return nil
}

// Rollback discards the records and the queued changes.
func (t *writeTxn) Rollback() {
	t.pending = nil
	t.WriteTxn.Rollback()
}

// Close implements ReadTxn by rolling back.
func (t *writeTxn) Close() { t.Rollback() }

// queueSDI defers fn until txn commits.
func (a *Adapter) queueSDI(txn WriteTxn, fn func(context.Context) error) error {
	t, ok := txn.(*writeTxn)
	if !ok {
		return errors.AssertionFailedf("transaction %T was not opened by the adapter", txn)
	}
	t.pending = append(t.pending, fn)
	return nil
}

// Get returns a copy of the object registered under key in partition p, or
// nil if there is none. Objects in the core registry take precedence;
// statistics bypass it.
func (a *Adapter) Get(
	ctx context.Context, p ddobj.Partition, key ddobj.Key, level isolation.Level,
) (ddobj.Object, error) {
	if key.KeyType() != ddobj.StatKeyType {
		if obj := a.coreGet(p, key); obj != nil {
			return obj, nil
		}
	}
	if a.CoreMode() {
		return nil, nil
	}
	txn, err := a.store.OpenReadTxn(ctx, level)
	if err != nil {
		return nil, err
	}
	defer txn.Close()
	return restore(ctx, txn, p, key)
}

// GetInTxn is like Get but reads through txn, observing its writes.
func (a *Adapter) GetInTxn(
	ctx context.Context, txn ReadTxn, p ddobj.Partition, key ddobj.Key,
) (ddobj.Object, error) {
	if key.KeyType() != ddobj.StatKeyType {
		if obj := a.coreGet(p, key); obj != nil {
			return obj, nil
		}
	}
	if a.CoreMode() {
		return nil, nil
	}
	return restore(ctx, txn, p, key)
}

func restore(
	ctx context.Context, txn ReadTxn, p ddobj.Partition, key ddobj.Key,
) (ddobj.Object, error) {
	rec, err := txn.FindRecord(ctx, p, key)
	if err != nil || rec == nil {
		return nil, err
	}
	obj, err := rec.Restore()
	if err != nil {
		return nil, errors.Wrapf(err, "restoring %s record for %s", rec.Kind(), key)
	}
	if obj.Kind().Partition() != p {
		return nil, errors.AssertionFailedf("record for %s in partition %s holds %s", key, p, obj)
	}
	return obj, nil
}

func (a *Adapter) coreGet(p ddobj.Partition, key ddobj.Key) ddobj.Object {
	a.core.Lock()
	defer a.core.Unlock()
	if obj := a.core.registry.GetObject(p, key); obj != nil {
		return obj.Clone()
	}
	return nil
}

// Store persists obj through txn, assigning it an id if it has none. In
// core mode obj goes into the core registry instead and txn may be nil.
func (a *Adapter) Store(ctx context.Context, txn WriteTxn, obj ddobj.Object) error {
	if a.CoreMode() {
		return a.coreStore(ctx, obj)
	}
	if err := obj.Validate(); err != nil {
		return errors.Wrapf(err, "storing %s", obj)
	}
	if txn == nil {
		return errors.AssertionFailedf("storing %s without a transaction", obj)
	}
	if err := txn.Persist(ctx, obj); err != nil {
		return errors.Wrapf(err, "storing %s", obj)
	}
	if a.writesSDI() {
		obj := obj.Clone()
		return a.queueSDI(txn, func(ctx context.Context) error { return a.sdi.Store(ctx, obj) })
	}
	return nil
}

func (a *Adapter) coreStore(ctx context.Context, obj ddobj.Object) error {
	p := obj.Kind().Partition()
	if p == ddobj.PartitionInvalid {
		return errors.AssertionFailedf("cannot keep %s in the core registry", obj)
	}
	a.core.Lock()
	defer a.core.Unlock()
	if id := obj.GetID(); id != ddobj.InvalidID {
		if e := a.core.registry.Get(p, ddobj.MakeIDKey(id)); e != nil {
			a.core.registry.Remove(e)
		}
		if id >= a.core.nextID[p] {
			a.core.nextID[p] = id + 1
		}
	} else {
		obj.SetID(a.core.nextID[p])
		a.core.nextID[p]++
	}
	log.VEventf(ctx, 2, "core registry: stored %s", obj)
	return a.core.registry.Put(cache.NewElement(obj.Clone()))
}

// Drop deletes obj through txn. In core mode obj is removed from the core
// registry instead.
func (a *Adapter) Drop(ctx context.Context, txn WriteTxn, obj ddobj.Object) error {
	if a.CoreMode() {
		return a.coreDrop(ctx, obj)
	}
	if txn == nil {
		return errors.AssertionFailedf("dropping %s without a transaction", obj)
	}
	if err := txn.Remove(ctx, obj); err != nil {
		return errors.Wrapf(err, "dropping %s", obj)
	}
	if a.writesSDI() {
		obj := obj.Clone()
		return a.queueSDI(txn, func(ctx context.Context) error { return a.sdi.Drop(ctx, obj) })
	}
	return nil
}

func (a *Adapter) coreDrop(ctx context.Context, obj ddobj.Object) error {
	p := obj.Kind().Partition()
	if p == ddobj.PartitionInvalid {
		return errors.AssertionFailedf("cannot drop %s from the core registry", obj)
	}
	key, ok := ddobj.KeyOf(obj, ddobj.IDKeyType)
	if a.fake {
		key, ok = ddobj.KeyOf(obj, ddobj.NameKeyType)
	}
	if !ok {
		return errors.AssertionFailedf("cannot drop %s from the core registry without a key", obj)
	}
	a.core.Lock()
	defer a.core.Unlock()
	if e := a.core.registry.Get(p, key); e != nil {
		a.core.registry.Remove(e)
		log.VEventf(ctx, 2, "core registry: dropped %s", obj)
	}
	return nil
}

// DropSDIAfterUpdate removes the serialized definition of prev when txn
// commits, if updating it to next moved the definition.
func (a *Adapter) DropSDIAfterUpdate(ctx context.Context, txn WriteTxn, prev, next ddobj.Object) error {
	if !a.writesSDI() {
		return nil
	}
	prev, next = prev.Clone(), next.Clone()
	return a.queueSDI(txn, func(ctx context.Context) error {
		return a.sdi.DropAfterUpdate(ctx, prev, next)
	})
}

// CoreSync replaces the scaffolding object scaffold in the core registry
// with the persisted object registered under key. It is used once during
// bootstrap, when the dictionary tables have become readable.
func (a *Adapter) CoreSync(ctx context.Context, key ddobj.Key, scaffold ddobj.Object) error {
	p := scaffold.Kind().Partition()
	a.core.Lock()
	defer a.core.Unlock()
	e := a.core.registry.Get(p, ddobj.MakeIDKey(scaffold.GetID()))
	if e == nil {
		return errors.AssertionFailedf("%s is not in the core registry", scaffold)
	}
	a.core.registry.Remove(e)

	obj, err := func() (ddobj.Object, error) {
		txn, err := a.store.OpenReadTxn(ctx, isolation.ReadCommitted)
		if err != nil {
			return nil, err
		}
		defer txn.Close()
		return restore(ctx, txn, p, key)
	}()
	if err == nil && obj == nil {
		err = errors.Wrapf(ErrCoreMetadataNotFound, "%s", key)
	}
	if err == nil {
		err = a.core.registry.Put(cache.NewElement(obj))
	}
	if err != nil {
		if putErr := a.core.registry.Put(e); putErr != nil {
			err = errors.CombineErrors(err, putErr)
		}
		return errors.Wrapf(err, "syncing core object %s", key)
	}
	log.VEventf(ctx, 1, "core registry: synced %s", obj)
	return nil
}

// CoreSize returns the number of objects of partition p in the core
// registry.
func (a *Adapter) CoreSize(p ddobj.Partition) int {
	a.core.Lock()
	defer a.core.Unlock()
	return a.core.registry.Size(p)
}

// CoreGetID returns the id of the core object registered under key, or
// InvalidID.
func (a *Adapter) CoreGetID(p ddobj.Partition, key ddobj.NameKey) ddobj.ID {
	if obj := a.coreGet(p, key); obj != nil {
		return obj.GetID()
	}
	return ddobj.InvalidID
}

// EraseAll empties the core registry and restarts synthetic id
// generation.
func (a *Adapter) EraseAll() {
	a.core.Lock()
	defer a.core.Unlock()
	a.core.registry.ClearAll()
	a.resetIDsLocked()
}

// Dump writes the contents of the core registry to w.
func (a *Adapter) Dump(w io.Writer) error {
	a.core.Lock()
	defer a.core.Unlock()
	for _, p := range ddobj.AllPartitions {
		if a.core.registry.Size(p) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", p); err != nil {
			return err
		}
		if err := a.core.registry.Iterate(p, func(e *cache.Element) error {
			_, err := fmt.Fprintf(w, "  %s\n", e)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// ScanNames lists the objects of partition p whose parent is parentID,
// from the core registry and, outside core mode, from the record store.
func (a *Adapter) ScanNames(
	ctx context.Context, p ddobj.Partition, parentID ddobj.ID,
) ([]NameEntry, error) {
	var entries []NameEntry
	seen := make(map[ddobj.ID]struct{})
	func() {
		a.core.Lock()
		defer a.core.Unlock()
		_ = a.core.registry.Iterate(p, func(e *cache.Element) error {
			if k, ok := e.NameKey(); ok && k.ParentID == parentID {
				obj := e.Object()
				entries = append(entries, NameEntry{Key: k, ID: obj.GetID(), Kind: obj.Kind()})
				seen[obj.GetID()] = struct{}{}
			}
			return nil
		})
	}()
	if a.CoreMode() {
		return entries, nil
	}
	txn, err := a.store.OpenReadTxn(ctx, isolation.ReadCommitted)
	if err != nil {
		return nil, err
	}
	defer txn.Close()
	stored, err := txn.ScanNames(ctx, p, parentID)
	if err != nil {
		return nil, err
	}
	for _, ne := range stored {
		if _, ok := seen[ne.ID]; !ok {
			entries = append(entries, ne)
		}
	}
	return entries, nil
}
