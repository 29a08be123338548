// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import "github.com/cockroachdb/redact"

// KeyType distinguishes the independent key spaces of a partition.
type KeyType uint8

// The key types.
const (
	IDKeyType KeyType = iota
	NameKeyType
	AuxKeyType
	StatKeyType
)

// Key is implemented by IDKey, NameKey, AuxKey and StatKey. All key types
// are comparable and may be used as map keys.
type Key interface {
	redact.SafeFormatter
	KeyType() KeyType
	String() string
}

// IDKey looks an object up by its id.
type IDKey struct {
	ID ID
}

var _ Key = IDKey{}

// MakeIDKey returns the id key for id.
func MakeIDKey(id ID) IDKey { return IDKey{ID: id} }

// KeyType implements Key.
func (IDKey) KeyType() KeyType { return IDKeyType }

// SafeFormat implements redact.SafeFormatter.
func (k IDKey) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("id=%d", k.ID)
}

// String implements Key.
func (k IDKey) String() string { return redact.StringWithoutMarkers(k) }

// NameKey looks an object up by its qualified name. ParentID is the owning
// schema for schema-scoped kinds and InvalidID for global names. Type is
// only set for routines, so that a function and a procedure may share a
// name.
type NameKey struct {
	ParentID ID
	Type     Kind
	Name     string
}

var _ Key = NameKey{}

// MakeGlobalNameKey returns the name key of a global object such as a
// schema, tablespace, charset or collation.
func MakeGlobalNameKey(name string) NameKey {
	return NameKey{Name: name}
}

// MakeItemNameKey returns the name key of a table, view or event.
func MakeItemNameKey(schemaID ID, name string) NameKey {
	return NameKey{ParentID: schemaID, Name: name}
}

// MakeRoutineNameKey returns the name key of a function or procedure.
func MakeRoutineNameKey(schemaID ID, kind Kind, name string) NameKey {
	return NameKey{ParentID: schemaID, Type: kind, Name: name}
}

// KeyType implements Key.
func (NameKey) KeyType() KeyType { return NameKeyType }

// SafeFormat implements redact.SafeFormatter.
func (k NameKey) SafeFormat(w redact.SafePrinter, _ rune) {
	if k.ParentID != InvalidID {
		w.Printf("%d.", k.ParentID)
	}
	if k.Type != KindInvalid {
		w.Printf("%s:", redact.SafeString(k.Type.String()))
	}
	w.Printf("%q", k.Name)
}

// String implements Key.
func (k NameKey) String() string { return redact.StringWithoutMarkers(k) }

// AuxKey is the engine-private key of an object, such as the engine's own
// table id.
type AuxKey struct {
	Engine    string
	PrivateID uint64
}

var _ Key = AuxKey{}

// MakeSEPrivateIDKey returns the aux key of a table stored by engine under
// privateID.
func MakeSEPrivateIDKey(engine string, privateID uint64) AuxKey {
	return AuxKey{Engine: engine, PrivateID: privateID}
}

// KeyType implements Key.
func (AuxKey) KeyType() KeyType { return AuxKeyType }

// SafeFormat implements redact.SafeFormatter.
func (k AuxKey) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s/%d", redact.SafeString(k.Engine), redact.Safe(k.PrivateID))
}

// String implements Key.
func (k AuxKey) String() string { return redact.StringWithoutMarkers(k) }

// StatKey addresses a statistics object. Statistics have no id; their
// qualified name is their primary key.
type StatKey struct {
	Kind   Kind
	Schema string
	Table  string
	Index  string
	Column string
}

var _ Key = StatKey{}

// MakeTableStatKey returns the key of the statistics of a table.
func MakeTableStatKey(schema, table string) StatKey {
	return StatKey{Kind: KindTableStat, Schema: schema, Table: table}
}

// MakeIndexStatKey returns the key of the statistics of one index column.
func MakeIndexStatKey(schema, table, index, column string) StatKey {
	return StatKey{Kind: KindIndexStat, Schema: schema, Table: table, Index: index, Column: column}
}

// KeyType implements Key.
func (StatKey) KeyType() KeyType { return StatKeyType }

// SafeFormat implements redact.SafeFormatter.
func (k StatKey) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s %q.%q", k.Kind, k.Schema, k.Table)
	if k.Kind == KindIndexStat {
		w.Printf(".%q.%q", k.Index, k.Column)
	}
}

// String implements Key.
func (k StatKey) String() string { return redact.StringWithoutMarkers(k) }
