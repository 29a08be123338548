// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Charset is a character set. Charset ids follow the server's well-known
// numbering and are assigned by the caller.
type Charset struct {
	ID                 ID
	Name               string
	DefaultCollationID ID
	MBMaxLen           uint32
	Comment            string
}

var _ Object = (*Charset)(nil)

// Kind implements Object.
func (*Charset) Kind() Kind { return KindCharset }

// GetID implements Object.
func (c *Charset) GetID() ID { return c.ID }

// SetID implements Object.
func (c *Charset) SetID(id ID) { c.ID = id }

// GetName implements Object.
func (c *Charset) GetName() string { return c.Name }

// NameKey implements Object.
func (c *Charset) NameKey() (NameKey, bool) {
	if c.Name == "" {
		return NameKey{}, false
	}
	return MakeGlobalNameKey(c.Name), true
}

// AuxKey implements Object.
func (*Charset) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (c *Charset) Clone() Object {
	n := *c
	return &n
}

// Validate implements Object.
func (c *Charset) Validate() error {
	if err := validateName(c); err != nil {
		return err
	}
	if c.MBMaxLen == 0 {
		return errors.Newf("charset %q has zero max character length", c.Name)
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (c *Charset) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, c)
	w.Printf(" mbmaxlen=%d", redact.Safe(c.MBMaxLen))
}

func (c *Charset) String() string { return objectString(c) }

// Collation is a sort order for a charset.
type Collation struct {
	ID           ID
	Name         string
	CharsetID    ID
	IsDefault    bool
	PadAttribute string
	SortLength   uint32
}

var _ Object = (*Collation)(nil)

// Kind implements Object.
func (*Collation) Kind() Kind { return KindCollation }

// GetID implements Object.
func (c *Collation) GetID() ID { return c.ID }

// SetID implements Object.
func (c *Collation) SetID(id ID) { c.ID = id }

// GetName implements Object.
func (c *Collation) GetName() string { return c.Name }

// NameKey implements Object.
func (c *Collation) NameKey() (NameKey, bool) {
	if c.Name == "" {
		return NameKey{}, false
	}
	return MakeGlobalNameKey(c.Name), true
}

// AuxKey implements Object.
func (*Collation) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (c *Collation) Clone() Object {
	n := *c
	return &n
}

// Validate implements Object.
func (c *Collation) Validate() error {
	if err := validateName(c); err != nil {
		return err
	}
	if c.CharsetID == InvalidID {
		return errors.Newf("collation %q has no charset", c.Name)
	}
	switch c.PadAttribute {
	case "", "PAD SPACE", "NO PAD":
	default:
		return errors.Newf("collation %q has invalid pad attribute %q", c.Name, c.PadAttribute)
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (c *Collation) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, c)
	w.Printf(" charset=%d", c.CharsetID)
}

func (c *Collation) String() string { return objectString(c) }

// SpatialReferenceSystem is a coordinate system for geometry columns. Its id
// is the externally assigned SRID.
type SpatialReferenceSystem struct {
	ID                     ID
	Name                   string
	Organization           string
	OrganizationCoordsysID uint32
	Definition             string
	Description            string
}

var _ Object = (*SpatialReferenceSystem)(nil)

// Kind implements Object.
func (*SpatialReferenceSystem) Kind() Kind { return KindSpatialReferenceSystem }

// GetID implements Object.
func (s *SpatialReferenceSystem) GetID() ID { return s.ID }

// SetID implements Object.
func (s *SpatialReferenceSystem) SetID(id ID) { s.ID = id }

// GetName implements Object.
func (s *SpatialReferenceSystem) GetName() string { return s.Name }

// NameKey implements Object.
func (s *SpatialReferenceSystem) NameKey() (NameKey, bool) {
	if s.Name == "" {
		return NameKey{}, false
	}
	return MakeGlobalNameKey(s.Name), true
}

// AuxKey implements Object.
func (*SpatialReferenceSystem) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (s *SpatialReferenceSystem) Clone() Object {
	n := *s
	return &n
}

// Validate implements Object.
func (s *SpatialReferenceSystem) Validate() error {
	if err := validateName(s); err != nil {
		return err
	}
	if s.Definition == "" {
		return errors.Newf("spatial reference system %q has an empty definition", s.Name)
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (s *SpatialReferenceSystem) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, s)
}

func (s *SpatialReferenceSystem) String() string { return objectString(s) }
