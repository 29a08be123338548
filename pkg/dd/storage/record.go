// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage

import (
	"context"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/isolation"
	"github.com/cockroachdb/errors"
)

// ErrDuplicateKey is returned when persisting an object whose name or aux
// key is taken by another object of its partition.
var ErrDuplicateKey = errors.New("duplicate dictionary key")

// ErrCoreMetadataNotFound is returned by CoreSync when the persisted
// metadata of a core object cannot be read back.
var ErrCoreMetadataNotFound = errors.New("core dictionary metadata not found")

// Record is a persisted row that an object can be restored from.
type Record interface {
	Kind() ddobj.Kind
	// Restore decodes a fresh object owned by the caller.
	Restore() (ddobj.Object, error)
}

// NameEntry is one row of a name index scan.
type NameEntry struct {
	Key  ddobj.NameKey
	ID   ddobj.ID
	Kind ddobj.Kind
}

// RecordStore is the persistent home of the dictionary tables.
type RecordStore interface {
	OpenReadTxn(ctx context.Context, level isolation.Level) (ReadTxn, error)
	OpenWriteTxn(ctx context.Context) (WriteTxn, error)
	// TablesCreated reports whether the dictionary tables exist, that is
	// whether the store has been initialized before.
	TablesCreated(ctx context.Context) (bool, error)
	// MarkTablesCreated records that the dictionary tables exist.
	MarkTablesCreated(ctx context.Context) error
	Close() error
}

// ReadTxn reads records at a fixed isolation level. It must be closed.
type ReadTxn interface {
	// FindRecord returns the record registered under key in partition p, or
	// nil if there is none.
	FindRecord(ctx context.Context, p ddobj.Partition, key ddobj.Key) (Record, error)
	// ScanNames lists the name index entries of partition p whose parent is
	// parentID, in name order.
	ScanNames(ctx context.Context, p ddobj.Partition, parentID ddobj.ID) ([]NameEntry, error)
	Close()
}

// WriteTxn buffers writes until Commit. Its reads observe its own writes.
type WriteTxn interface {
	ReadTxn
	// Persist inserts or overwrites the record of obj, assigning a fresh id
	// if obj has none.
	Persist(ctx context.Context, obj ddobj.Object) error
	// Remove deletes the record of obj.
	Remove(ctx context.Context, obj ddobj.Object) error
	Commit(ctx context.Context) error
	Rollback()
}
