// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Schema is a named container of tables, views, events and routines.
type Schema struct {
	ID                 ID
	Name               string
	DefaultCollationID ID
	DefaultEncryption  bool
}

var _ Object = (*Schema)(nil)

// Kind implements Object.
func (*Schema) Kind() Kind { return KindSchema }

// GetID implements Object.
func (s *Schema) GetID() ID { return s.ID }

// SetID implements Object.
func (s *Schema) SetID(id ID) { s.ID = id }

// GetName implements Object.
func (s *Schema) GetName() string { return s.Name }

// NameKey implements Object.
func (s *Schema) NameKey() (NameKey, bool) {
	if s.Name == "" {
		return NameKey{}, false
	}
	return MakeGlobalNameKey(s.Name), true
}

// AuxKey implements Object.
func (*Schema) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (s *Schema) Clone() Object {
	c := *s
	return &c
}

// Validate implements Object.
func (s *Schema) Validate() error {
	return validateName(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s *Schema) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, s)
}

func (s *Schema) String() string { return objectString(s) }

// Tablespace groups the data files of an engine.
type Tablespace struct {
	ID            ID
	Name          string
	Engine        string
	Comment       string
	Files         []string
	SEPrivateData string
}

var _ Object = (*Tablespace)(nil)

// Kind implements Object.
func (*Tablespace) Kind() Kind { return KindTablespace }

// GetID implements Object.
func (t *Tablespace) GetID() ID { return t.ID }

// SetID implements Object.
func (t *Tablespace) SetID(id ID) { t.ID = id }

// GetName implements Object.
func (t *Tablespace) GetName() string { return t.Name }

// NameKey implements Object.
func (t *Tablespace) NameKey() (NameKey, bool) {
	if t.Name == "" {
		return NameKey{}, false
	}
	return MakeGlobalNameKey(t.Name), true
}

// AuxKey implements Object.
func (*Tablespace) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (t *Tablespace) Clone() Object {
	c := *t
	c.Files = cloneStrings(t.Files)
	return &c
}

// Validate implements Object.
func (t *Tablespace) Validate() error {
	if err := validateName(t); err != nil {
		return err
	}
	if t.Engine == "" {
		return errors.Newf("tablespace %q has no engine", t.Name)
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (t *Tablespace) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, t)
	w.Printf(" engine=%s files=%d", redact.SafeString(t.Engine), len(t.Files))
}

func (t *Tablespace) String() string { return objectString(t) }
