// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import "github.com/cockroachdb/redact"

// ID uniquely identifies a dictionary object within its kind.
type ID uint64

// SafeValue implements the redact.SafeValue interface.
func (ID) SafeValue() {}

const (
	// InvalidID is the id of an object that has not been persisted yet.
	InvalidID ID = 0

	// FirstOID is the first id handed out for objects that only live in
	// the core registry during bootstrap. Ids at or above this value are
	// recognizably synthetic.
	FirstOID ID = 10001
)

// Kind is the closed set of dictionary object variants.
type Kind uint8

// SafeValue implements the redact.SafeValue interface.
func (Kind) SafeValue() {}

// The kinds of dictionary objects.
const (
	KindInvalid Kind = iota
	KindTable
	KindView
	KindSchema
	KindTablespace
	KindCharset
	KindCollation
	KindEvent
	KindFunction
	KindProcedure
	KindSpatialReferenceSystem
	KindTableStat
	KindIndexStat

	numKinds
)

// AllKinds lists every valid kind in declaration order.
var AllKinds = func() []Kind {
	ks := make([]Kind, 0, numKinds-1)
	for k := KindTable; k < numKinds; k++ {
		ks = append(ks, k)
	}
	return ks
}()

var kindNames = [...]string{
	KindInvalid:                "invalid",
	KindTable:                  "table",
	KindView:                   "view",
	KindSchema:                 "schema",
	KindTablespace:             "tablespace",
	KindCharset:                "charset",
	KindCollation:              "collation",
	KindEvent:                  "event",
	KindFunction:               "function",
	KindProcedure:              "procedure",
	KindSpatialReferenceSystem: "spatial reference system",
	KindTableStat:              "table stat",
	KindIndexStat:              "index stat",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return redact.Sprintf("kind(%d)", uint8(k)).StripMarkers()
}

// Valid returns true if k names an actual object kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < numKinds
}

// Partition returns the shared cache partition objects of this kind live in.
// Statistics kinds return PartitionInvalid: they are never cached.
func (k Kind) Partition() Partition {
	switch k {
	case KindTable, KindView:
		return PartitionAbstractTable
	case KindSchema:
		return PartitionSchema
	case KindTablespace:
		return PartitionTablespace
	case KindCharset:
		return PartitionCharset
	case KindCollation:
		return PartitionCollation
	case KindEvent:
		return PartitionEvent
	case KindFunction, KindProcedure:
		return PartitionRoutine
	case KindSpatialReferenceSystem:
		return PartitionSpatialReferenceSystem
	default:
		return PartitionInvalid
	}
}

// IsCached is false for the statistics kinds, which bypass the shared cache
// and every client registry.
func (k Kind) IsCached() bool {
	return k.Partition() != PartitionInvalid
}

// HasPresetID is true for kinds whose ids follow a well-known external
// numbering rather than being generated by storage.
func (k Kind) HasPresetID() bool {
	switch k {
	case KindCharset, KindCollation, KindSpatialReferenceSystem:
		return true
	}
	return false
}

// IsSchemaScoped is true for kinds whose names are unique within a schema.
func (k Kind) IsSchemaScoped() bool {
	switch k {
	case KindTable, KindView, KindEvent, KindFunction, KindProcedure:
		return true
	}
	return false
}

// Partition identifies one shared cache partition. Several kinds may share
// a partition when they share a name space (tables and views, functions and
// procedures).
type Partition uint8

// SafeValue implements the redact.SafeValue interface.
func (Partition) SafeValue() {}

// The shared cache partitions.
const (
	PartitionInvalid Partition = iota
	PartitionAbstractTable
	PartitionSchema
	PartitionTablespace
	PartitionCharset
	PartitionCollation
	PartitionEvent
	PartitionRoutine
	PartitionSpatialReferenceSystem

	// NumPartitions bounds the partition values; arrays indexed by
	// Partition use it as their length.
	NumPartitions
)

// AllPartitions lists every cached partition in release order.
var AllPartitions = []Partition{
	PartitionAbstractTable,
	PartitionSchema,
	PartitionTablespace,
	PartitionCharset,
	PartitionCollation,
	PartitionEvent,
	PartitionRoutine,
	PartitionSpatialReferenceSystem,
}

var partitionNames = [...]string{
	PartitionInvalid:                "invalid",
	PartitionAbstractTable:          "abstract_table",
	PartitionSchema:                 "schema",
	PartitionTablespace:             "tablespace",
	PartitionCharset:                "charset",
	PartitionCollation:              "collation",
	PartitionEvent:                  "event",
	PartitionRoutine:                "routine",
	PartitionSpatialReferenceSystem: "spatial_reference_system",
}

// String implements fmt.Stringer.
func (p Partition) String() string {
	if int(p) < len(partitionNames) {
		return partitionNames[p]
	}
	return redact.Sprintf("partition(%d)", uint8(p)).StripMarkers()
}

// PartitionByName is the inverse of Partition.String.
func PartitionByName(name string) (Partition, bool) {
	for _, p := range AllPartitions {
		if p.String() == name {
			return p, true
		}
	}
	return PartitionInvalid, false
}

// KindByName is the inverse of Kind.String, also accepting underscores in
// place of spaces.
func KindByName(name string) (Kind, bool) {
	for _, k := range AllKinds {
		s := k.String()
		if s == name || underscored(s) == name {
			return k, true
		}
	}
	return KindInvalid, false
}

func underscored(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}
