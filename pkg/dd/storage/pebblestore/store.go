// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pebblestore implements the dictionary record store on Pebble.
//
// Every object is one record keyed by partition and id. Name and aux keys
// are secondary indexes pointing at the id, and statistics are keyed by
// their qualified name. Read transactions at repeatable read isolation use
// a Pebble snapshot; write transactions are indexed batches, so their reads
// observe their own writes.
package pebblestore

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// Store is a storage.RecordStore backed by a Pebble database.
type Store struct {
	db *pebble.DB
	// lastID holds the highest id handed out per partition.
	lastID [ddobj.NumPartitions]atomic.Uint64
}

var _ storage.RecordStore = (*Store)(nil)

// Open opens or creates the store in dir of fs.
func Open(ctx context.Context, dir string, fs vfs.FS) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		FS:     fs,
		Logger: log.NewStorageLogger(ctx),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening dictionary store in %s", dir)
	}
	s := &Store{db: db}
	if err := s.loadLastIDs(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Infof(ctx, "opened dictionary store in %s", dir)
	return s, nil
}

// OpenInMem opens an empty store on an in-memory filesystem.
func OpenInMem(ctx context.Context) (*Store, error) {
	return Open(ctx, "", vfs.NewMem())
}

func (s *Store) loadLastIDs() error {
	for _, p := range ddobj.AllPartitions {
		lower, upper := recordSpan(p)
		iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
		if err != nil {
			return err
		}
		if iter.Last() {
			id, err := decodeRecordKey(iter.Key())
			if err != nil {
				_ = iter.Close()
				return err
			}
			s.lastID[p].Store(uint64(id))
		}
		if err := iter.Close(); err != nil {
			return err
		}
	}
	return nil
}

// allocateID returns a fresh id in partition p.
func (s *Store) allocateID(p ddobj.Partition) ddobj.ID {
	return ddobj.ID(s.lastID[p].Add(1))
}

// observeID makes sure that id is never handed out by allocateID.
func (s *Store) observeID(p ddobj.Partition, id ddobj.ID) {
	for {
		last := s.lastID[p].Load()
		if uint64(id) <= last || s.lastID[p].CompareAndSwap(last, uint64(id)) {
			return
		}
	}
}

// Close implements storage.RecordStore.
func (s *Store) Close() error {
	return s.db.Close()
}

// TablesCreated implements storage.RecordStore.
func (s *Store) TablesCreated(context.Context) (bool, error) {
	_, closer, err := s.db.Get(tablesCreatedKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

// MarkTablesCreated implements storage.RecordStore.
func (s *Store) MarkTablesCreated(context.Context) error {
	return s.db.Set(tablesCreatedKey, []byte{1}, pebble.Sync)
}

// Version returns the dictionary version recorded in the store, or 0.
func (s *Store) Version() (uint32, error) {
	v, closer, err := s.db.Get(versionKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	id, err := decodeIDValue(v)
	return uint32(id), err
}

// SetVersion records the dictionary version.
func (s *Store) SetVersion(v uint32) error {
	return s.db.Set(versionKey, idValue(ddobj.ID(v)), pebble.Sync)
}

// reader is the subset of the Pebble read interface shared by the database,
// snapshots and indexed batches.
type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

// get returns a copy of the value under key, or nil.
func get(r reader, key []byte) ([]byte, error) {
	v, closer, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

type record struct {
	value []byte
}

var _ storage.Record = record{}

func (r record) Kind() ddobj.Kind { return ddobj.Kind(r.value[0]) }

func (r record) Restore() (ddobj.Object, error) { return decodeObject(r.value) }

type readTxn struct {
	r     reader
	close func()
}

var _ storage.ReadTxn = (*readTxn)(nil)

// OpenReadTxn implements storage.RecordStore.
func (s *Store) OpenReadTxn(ctx context.Context, level isolation.Level) (storage.ReadTxn, error) {
	if level == isolation.RepeatableRead {
		snap := s.db.NewSnapshot()
		return &readTxn{r: snap, close: func() { _ = snap.Close() }}, nil
	}
	return &readTxn{r: s.db, close: func() {}}, nil
}

// idFor resolves key to the id of a record in partition p.
func idFor(r reader, p ddobj.Partition, key ddobj.Key) (ddobj.ID, bool, error) {
	var v []byte
	var err error
	switch k := key.(type) {
	case ddobj.IDKey:
		return k.ID, true, nil
	case ddobj.NameKey:
		if v, err = get(r, nameKey(p, k)); err != nil || v == nil {
			return 0, false, err
		}
		id, _, err := decodeNameValue(v)
		return id, err == nil, err
	case ddobj.AuxKey:
		if v, err = get(r, auxKey(p, k)); err != nil || v == nil {
			return 0, false, err
		}
		id, err := decodeIDValue(v)
		return id, err == nil, err
	}
	return 0, false, errors.AssertionFailedf("unsupported key %s", key)
}

func findRecord(r reader, p ddobj.Partition, key ddobj.Key) (storage.Record, error) {
	var k []byte
	if sk, ok := key.(ddobj.StatKey); ok {
		k = statKey(sk)
	} else {
		id, ok, err := idFor(r, p, key)
		if err != nil || !ok {
			return nil, err
		}
		k = recordKey(p, id)
	}
	v, err := get(r, k)
	if err != nil || v == nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, errors.AssertionFailedf("empty record under %s", key)
	}
	return record{value: v}, nil
}

func scanNames(r reader, p ddobj.Partition, parentID ddobj.ID) ([]storage.NameEntry, error) {
	prefix := nameKeyPrefix(p, parentID)
	iter, err := r.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return nil, err
	}
	var entries []storage.NameEntry
	for valid := iter.First(); valid; valid = iter.Next() {
		k, err := decodeNameKey(iter.Key())
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		id, kind, err := decodeNameValue(iter.Value())
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		entries = append(entries, storage.NameEntry{Key: k, ID: id, Kind: kind})
	}
	return entries, errors.CombineErrors(iter.Error(), iter.Close())
}

// FindRecord implements storage.ReadTxn.
func (t *readTxn) FindRecord(
	_ context.Context, p ddobj.Partition, key ddobj.Key,
) (storage.Record, error) {
	return findRecord(t.r, p, key)
}

// ScanNames implements storage.ReadTxn.
func (t *readTxn) ScanNames(
	_ context.Context, p ddobj.Partition, parentID ddobj.ID,
) ([]storage.NameEntry, error) {
	return scanNames(t.r, p, parentID)
}

// Close implements storage.ReadTxn.
func (t *readTxn) Close() { t.close() }

type writeTxn struct {
	s     *Store
	batch *pebble.Batch
	done  bool
}

var _ storage.WriteTxn = (*writeTxn)(nil)

// OpenWriteTxn implements storage.RecordStore.
func (s *Store) OpenWriteTxn(context.Context) (storage.WriteTxn, error) {
	return &writeTxn{s: s, batch: s.db.NewIndexedBatch()}, nil
}

func (t *writeTxn) check() error {
	if t.done {
		return errors.AssertionFailedf("use of finished write transaction")
	}
	return nil
}

// FindRecord implements storage.ReadTxn.
func (t *writeTxn) FindRecord(
	_ context.Context, p ddobj.Partition, key ddobj.Key,
) (storage.Record, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return findRecord(t.batch, p, key)
}

// ScanNames implements storage.ReadTxn.
func (t *writeTxn) ScanNames(
	_ context.Context, p ddobj.Partition, parentID ddobj.ID,
) ([]storage.NameEntry, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return scanNames(t.batch, p, parentID)
}

// previous returns the currently stored version of the object with the
// given id, or nil.
func (t *writeTxn) previous(p ddobj.Partition, id ddobj.ID) (ddobj.Object, error) {
	v, err := get(t.batch, recordKey(p, id))
	if err != nil || v == nil {
		return nil, err
	}
	return decodeObject(v)
}

// claim checks that key is free or already points at id.
func (t *writeTxn) claim(key []byte, id ddobj.ID, what ddobj.Key) error {
	v, err := get(t.batch, key)
	if err != nil || v == nil {
		return err
	}
	owner, err := decodeIDValue(v[:8])
	if err != nil {
		return err
	}
	if owner != id {
		return errors.Wrapf(storage.ErrDuplicateKey, "%s is taken by object %d", what, owner)
	}
	return nil
}

// Persist implements storage.WriteTxn.
func (t *writeTxn) Persist(ctx context.Context, obj ddobj.Object) error {
	if err := t.check(); err != nil {
		return err
	}
	value, err := encodeObject(obj)
	if err != nil {
		return err
	}
	if s, ok := obj.(ddobj.Stat); ok {
		return t.batch.Set(statKey(s.StatKey()), value, nil)
	}

	p := obj.Kind().Partition()
	id := obj.GetID()
	var prev ddobj.Object
	if id == ddobj.InvalidID {
		id = t.s.allocateID(p)
	} else {
		t.s.observeID(p, id)
		if prev, err = t.previous(p, id); err != nil {
			return err
		}
	}

	nk, hasName := obj.NameKey()
	ak, hasAux := obj.AuxKey()
	if hasName {
		if err := t.claim(nameKey(p, nk), id, nk); err != nil {
			return err
		}
	}
	if hasAux {
		if err := t.claim(auxKey(p, ak), id, ak); err != nil {
			return err
		}
	}
	if prev != nil {
		if err := t.unindex(p, prev); err != nil {
			return err
		}
	}

	// The id goes into the record only once all checks passed.
	if obj.GetID() == ddobj.InvalidID {
		obj.SetID(id)
		if value, err = encodeObject(obj); err != nil {
			return err
		}
	}
	if err := t.batch.Set(recordKey(p, id), value, nil); err != nil {
		return err
	}
	if hasName {
		if err := t.batch.Set(nameKey(p, nk), nameValue(id, obj.Kind()), nil); err != nil {
			return err
		}
	}
	if hasAux {
		if err := t.batch.Set(auxKey(p, ak), idValue(id), nil); err != nil {
			return err
		}
	}
	log.VEventf(ctx, 3, "persisted %s", obj)
	return nil
}

// unindex deletes the secondary index entries of obj.
func (t *writeTxn) unindex(p ddobj.Partition, obj ddobj.Object) error {
	if nk, ok := obj.NameKey(); ok {
		if err := t.batch.Delete(nameKey(p, nk), nil); err != nil {
			return err
		}
	}
	if ak, ok := obj.AuxKey(); ok {
		if err := t.batch.Delete(auxKey(p, ak), nil); err != nil {
			return err
		}
	}
	return nil
}

// Remove implements storage.WriteTxn. Removing an object that is not
// stored is a no-op.
func (t *writeTxn) Remove(ctx context.Context, obj ddobj.Object) error {
	if err := t.check(); err != nil {
		return err
	}
	if s, ok := obj.(ddobj.Stat); ok {
		return t.batch.Delete(statKey(s.StatKey()), nil)
	}
	p := obj.Kind().Partition()
	prev, err := t.previous(p, obj.GetID())
	if err != nil || prev == nil {
		return err
	}
	if err := t.unindex(p, prev); err != nil {
		return err
	}
	log.VEventf(ctx, 3, "removed %s", obj)
	return t.batch.Delete(recordKey(p, obj.GetID()), nil)
}

// Commit implements storage.WriteTxn.
func (t *writeTxn) Commit(context.Context) error {
	if err := t.check(); err != nil {
		return err
	}
	t.done = true
	defer func() { _ = t.batch.Close() }()
	return t.batch.Commit(pebble.Sync)
}

// Rollback implements storage.WriteTxn. It is a no-op after Commit.
func (t *writeTxn) Rollback() {
	if t.done {
		return
	}
	t.done = true
	_ = t.batch.Close()
}

// Close implements storage.ReadTxn by rolling back.
func (t *writeTxn) Close() { t.Rollback() }
