// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package ddobj defines the dictionary object model: the closed set of
// object kinds, the keys they are looked up by, and the Object interface
// every kind implements.
package ddobj

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Object is implemented by every dictionary object. An object held by the
// shared cache is immutable; callers that need to mutate one must work on a
// Clone.
type Object interface {
	redact.SafeFormatter
	fmt.Stringer

	// Kind returns the variant of the object.
	Kind() Kind
	// GetID returns the id of the object, or InvalidID if it has not been
	// persisted yet.
	GetID() ID
	// SetID is used by storage when persisting a new object.
	SetID(ID)
	// GetName returns the unqualified name of the object.
	GetName() string
	// NameKey returns the name key of the object. It returns false for
	// objects that have no name, such as some temporary objects.
	NameKey() (NameKey, bool)
	// AuxKey returns the engine-private key of the object, if it has one.
	AuxKey() (AuxKey, bool)
	// Clone returns a deep copy that shares no mutable state with the
	// receiver.
	Clone() Object
	// Validate checks the object for internal consistency before it is
	// persisted.
	Validate() error
}

// SchemaScoped is implemented by objects whose names are unique within a
// schema.
type SchemaScoped interface {
	Object
	GetSchemaID() ID
}

// Stat is implemented by the statistics kinds. Statistics are never cached
// and are addressed by their StatKey instead of an id.
type Stat interface {
	Object
	StatKey() StatKey
}

// KeyOf returns the key of o for the requested key type, and false if o
// does not expose such a key.
func KeyOf(o Object, kt KeyType) (Key, bool) {
	switch kt {
	case IDKeyType:
		if o.GetID() == InvalidID {
			return nil, false
		}
		return MakeIDKey(o.GetID()), true
	case NameKeyType:
		if k, ok := o.NameKey(); ok {
			return k, true
		}
	case AuxKeyType:
		if k, ok := o.AuxKey(); ok {
			return k, true
		}
	case StatKeyType:
		if s, ok := o.(Stat); ok {
			return s.StatKey(), true
		}
	}
	return nil, false
}

// New returns an empty object of the given kind.
func New(k Kind) (Object, error) {
	switch k {
	case KindTable:
		return &Table{}, nil
	case KindView:
		return &View{}, nil
	case KindSchema:
		return &Schema{}, nil
	case KindTablespace:
		return &Tablespace{}, nil
	case KindCharset:
		return &Charset{}, nil
	case KindCollation:
		return &Collation{}, nil
	case KindEvent:
		return &Event{}, nil
	case KindFunction:
		return &Function{}, nil
	case KindProcedure:
		return &Procedure{}, nil
	case KindSpatialReferenceSystem:
		return &SpatialReferenceSystem{}, nil
	case KindTableStat:
		return &TableStat{}, nil
	case KindIndexStat:
		return &IndexStat{}, nil
	}
	return nil, errors.AssertionFailedf("unknown object kind %d", k)
}

// formatObject renders the common prefix of every object.
func formatObject(w redact.SafePrinter, o Object) {
	w.Printf("%s %d %q", o.Kind(), o.GetID(), o.GetName())
}

func objectString(o Object) string {
	return redact.StringWithoutMarkers(o)
}

func validateName(o Object) error {
	if o.GetName() == "" {
		return errors.Newf("%s %d has an empty name", o.Kind(), o.GetID())
	}
	return nil
}

func validateSchemaID(o Object, schemaID ID) error {
	if schemaID == InvalidID {
		return errors.Newf("%s %q does not belong to a schema", o.Kind(), o.GetName())
	}
	return nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
