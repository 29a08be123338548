// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// ParameterMode is the direction of a routine parameter.
type ParameterMode uint8

// The parameter modes.
const (
	ParameterIn ParameterMode = iota
	ParameterOut
	ParameterInOut
)

// Parameter is one formal parameter of a routine.
type Parameter struct {
	Name string
	Type string
	Mode ParameterMode
}

// Event is a scheduled statement.
type Event struct {
	ID              ID
	Name            string
	SchemaID        ID
	Definer         string
	Definition      string
	IntervalSeconds int64
	Enabled         bool
	Comment         string
}

var _ SchemaScoped = (*Event)(nil)

// Kind implements Object.
func (*Event) Kind() Kind { return KindEvent }

// GetID implements Object.
func (e *Event) GetID() ID { return e.ID }

// SetID implements Object.
func (e *Event) SetID(id ID) { e.ID = id }

// GetName implements Object.
func (e *Event) GetName() string { return e.Name }

// GetSchemaID implements SchemaScoped.
func (e *Event) GetSchemaID() ID { return e.SchemaID }

// NameKey implements Object.
func (e *Event) NameKey() (NameKey, bool) {
	if e.Name == "" {
		return NameKey{}, false
	}
	return MakeItemNameKey(e.SchemaID, e.Name), true
}

// AuxKey implements Object.
func (*Event) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (e *Event) Clone() Object {
	c := *e
	return &c
}

// Validate implements Object.
func (e *Event) Validate() error {
	if err := validateName(e); err != nil {
		return err
	}
	if err := validateSchemaID(e, e.SchemaID); err != nil {
		return err
	}
	if e.IntervalSeconds < 0 {
		return errors.Newf("event %q has a negative interval", e.Name)
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (e *Event) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, e)
	w.Printf(" schema=%d", e.SchemaID)
}

func (e *Event) String() string { return objectString(e) }

// Function is a stored function. Functions and procedures share the routine
// partition; the Type component of their name keys keeps them apart.
type Function struct {
	ID            ID
	Name          string
	SchemaID      ID
	Definer       string
	Definition    string
	Parameters    []Parameter
	ReturnType    string
	Deterministic bool
}

var _ SchemaScoped = (*Function)(nil)

// Kind implements Object.
func (*Function) Kind() Kind { return KindFunction }

// GetID implements Object.
func (f *Function) GetID() ID { return f.ID }

// SetID implements Object.
func (f *Function) SetID(id ID) { f.ID = id }

// GetName implements Object.
func (f *Function) GetName() string { return f.Name }

// GetSchemaID implements SchemaScoped.
func (f *Function) GetSchemaID() ID { return f.SchemaID }

// NameKey implements Object.
func (f *Function) NameKey() (NameKey, bool) {
	if f.Name == "" {
		return NameKey{}, false
	}
	return MakeRoutineNameKey(f.SchemaID, KindFunction, f.Name), true
}

// AuxKey implements Object.
func (*Function) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (f *Function) Clone() Object {
	c := *f
	c.Parameters = cloneParameters(f.Parameters)
	return &c
}

// Validate implements Object.
func (f *Function) Validate() error {
	if err := validateRoutine(f, f.SchemaID, f.Parameters); err != nil {
		return err
	}
	if f.ReturnType == "" {
		return errors.Newf("function %q has no return type", f.Name)
	}
	for _, p := range f.Parameters {
		if p.Mode != ParameterIn {
			return errors.Newf("function %q parameter %q must be IN", f.Name, p.Name)
		}
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (f *Function) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, f)
	w.Printf(" schema=%d params=%d", f.SchemaID, len(f.Parameters))
}

func (f *Function) String() string { return objectString(f) }

// Procedure is a stored procedure.
type Procedure struct {
	ID         ID
	Name       string
	SchemaID   ID
	Definer    string
	Definition string
	Parameters []Parameter
}

var _ SchemaScoped = (*Procedure)(nil)

// Kind implements Object.
func (*Procedure) Kind() Kind { return KindProcedure }

// GetID implements Object.
func (p *Procedure) GetID() ID { return p.ID }

// SetID implements Object.
func (p *Procedure) SetID(id ID) { p.ID = id }

// GetName implements Object.
func (p *Procedure) GetName() string { return p.Name }

// GetSchemaID implements SchemaScoped.
func (p *Procedure) GetSchemaID() ID { return p.SchemaID }

// NameKey implements Object.
func (p *Procedure) NameKey() (NameKey, bool) {
	if p.Name == "" {
		return NameKey{}, false
	}
	return MakeRoutineNameKey(p.SchemaID, KindProcedure, p.Name), true
}

// AuxKey implements Object.
func (*Procedure) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// Clone implements Object.
func (p *Procedure) Clone() Object {
	c := *p
	c.Parameters = cloneParameters(p.Parameters)
	return &c
}

// Validate implements Object.
func (p *Procedure) Validate() error {
	return validateRoutine(p, p.SchemaID, p.Parameters)
}

// SafeFormat implements redact.SafeFormatter.
func (p *Procedure) SafeFormat(w redact.SafePrinter, _ rune) {
	formatObject(w, p)
	w.Printf(" schema=%d params=%d", p.SchemaID, len(p.Parameters))
}

func (p *Procedure) String() string { return objectString(p) }

func cloneParameters(ps []Parameter) []Parameter {
	if ps == nil {
		return nil
	}
	return append([]Parameter(nil), ps...)
}

func validateRoutine(o Object, schemaID ID, params []Parameter) error {
	if err := validateName(o); err != nil {
		return err
	}
	if err := validateSchemaID(o, schemaID); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p.Name == "" || p.Type == "" {
			return errors.Newf("%s %q has an incomplete parameter", o.Kind(), o.GetName())
		}
		if _, ok := seen[p.Name]; ok {
			return errors.Newf("%s %q has duplicate parameter %q", o.Kind(), o.GetName(), p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
