// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Column describes one column of a table or view.
type Column struct {
	Name        string
	Type        string
	Nullable    bool
	Default     string
	CollationID ID
}

// Index describes one index of a table. Columns names the indexed columns
// in key order.
type Index struct {
	Name          string
	Unique        bool
	Columns       []string
	SEPrivateData string
}

// Table is a base table. Tables and views share the abstract table
// partition and name space.
type Table struct {
	ID            ID
	Name          string
	SchemaID      ID
	Engine        string
	SEPrivateID   uint64
	TablespaceID  ID
	CollationID   ID
	Comment       string
	Hidden        bool
	Columns       []Column
	Indexes       []Index
	SEPrivateData string
}

var _ SchemaScoped = (*Table)(nil)

// Kind implements Object.
func (*Table) Kind() Kind { return KindTable }

// GetID implements Object.
func (t *Table) GetID() ID { return t.ID }

// SetID implements Object.
func (t *Table) SetID(id ID) { t.ID = id }

// GetName implements Object.
func (t *Table) GetName() string { return t.Name }

// GetSchemaID implements SchemaScoped.
func (t *Table) GetSchemaID() ID { return t.SchemaID }

// NameKey implements Object.
func (t *Table) NameKey() (NameKey, bool) {
	if t.Name == "" {
		return NameKey{}, false
	}
	return MakeItemNameKey(t.SchemaID, t.Name), true
}

// AuxKey implements Object. Only tables stored by an engine that hands out
// its own ids have an aux key.
func (t *Table) AuxKey() (AuxKey, bool) {
	if t.Engine == "" || t.SEPrivateID == 0 {
		return AuxKey{}, false
	}
	return MakeSEPrivateIDKey(t.Engine, t.SEPrivateID), true
}

// Clone implements Object.
func (t *Table) Clone() Object {
	c := *t
	c.Columns = cloneColumns(t.Columns)
	if t.Indexes != nil {
		c.Indexes = make([]Index, len(t.Indexes))
		for i, idx := range t.Indexes {
			idx.Columns = cloneStrings(idx.Columns)
			c.Indexes[i] = idx
		}
	}
	return &c
}

// Validate implements Object.
func (t *Table) Validate() error {
	if err := validateName(t); err != nil {
		return err
	}
	if err := validateSchemaID(t, t.SchemaID); err != nil {
		return err
	}
	if t.Engine == "" {
		return errors.Newf("table %q has no engine", t.Name)
	}
	cols, err := validateColumns(t, t.Columns)
	if err != nil {
		return err
	}
	idxNames := make(map[string]struct{}, len(t.Indexes))
	for _, idx := range t.Indexes {
		if idx.Name == "" {
			return errors.Newf("table %q has an unnamed index", t.Name)
		}
		if _, ok := idxNames[idx.Name]; ok {
			return errors.Newf("table %q has duplicate index %q", t.Name, idx.Name)
		}
		idxNames[idx.Name] = struct{}{}
		if len(idx.Columns) == 0 {
			return errors.Newf("index %q of table %q has no columns", idx.Name, t.Name)
		}
		for _, c := range idx.Columns {
			if _, ok := cols[c]; !ok {
				return errors.Newf("index %q of table %q references unknown column %q",
					idx.Name, t.Name, c)
			}
		}
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (t *Table) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, t)
	w.Printf(" schema=%d engine=%s", t.SchemaID, redact.SafeString(t.Engine))
	if t.SEPrivateID != 0 {
		w.Printf(" se_private_id=%d", redact.Safe(t.SEPrivateID))
	}
}

func (t *Table) String() string { return objectString(t) }

// View is a stored query. Views have no engine and no aux key.
type View struct {
	ID         ID
	Name       string
	SchemaID   ID
	Definition string
	Definer    string
	Columns    []Column
}

var _ SchemaScoped = (*View)(nil)

// Kind implements Object.
func (*View) Kind() Kind { return KindView }

// GetID implements Object.
func (v *View) GetID() ID { return v.ID }

// SetID implements Object.
func (v *View) SetID(id ID) { v.ID = id }

// GetName implements Object.
func (v *View) GetName() string { return v.Name }

// GetSchemaID implements SchemaScoped.
func (v *View) GetSchemaID() ID { return v.SchemaID }

// NameKey implements Object.
func (v *View) NameKey() (NameKey, bool) {
	if v.Name == "" {
		return NameKey{}, false
	}
	return MakeItemNameKey(v.SchemaID, v.Name), true
}

// AuxKey implements Object.
func (*View) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (v *View) Clone() Object {
	c := *v
	c.Columns = cloneColumns(v.Columns)
	return &c
}

// Validate implements Object.
func (v *View) Validate() error {
	if err := validateName(v); err != nil {
		return err
	}
	if err := validateSchemaID(v, v.SchemaID); err != nil {
		return err
	}
	if v.Definition == "" {
		return errors.Newf("view %q has an empty definition", v.Name)
	}
	_, err := validateColumns(v, v.Columns)
	return err
}

// SafeFormat implements redact.SafeFormatter.
func (v *View) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, v)
	w.Printf(" schema=%d", v.SchemaID)
}

func (v *View) String() string { return objectString(v) }

func cloneColumns(cols []Column) []Column {
	if cols == nil {
		return nil
	}
	return append([]Column(nil), cols...)
}

func validateColumns(o Object, cols []Column) (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return nil, errors.Newf("%s %q has an unnamed column", o.Kind(), o.GetName())
		}
		if _, ok := names[c.Name]; ok {
			return nil, errors.Newf("%s %q has duplicate column %q", o.Kind(), o.GetName(), c.Name)
		}
		names[c.Name] = struct{}{}
	}
	return names, nil
}
