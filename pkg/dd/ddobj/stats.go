// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// TableStat holds the persisted statistics of one table. Statistics have no
// id and are never cached.
type TableStat struct {
	Schema        string
	Table         string
	Rows          uint64
	AvgRowLength  uint64
	DataLength    uint64
	IndexLength   uint64
	AutoIncrement uint64
	UpdateTime    int64
}

var _ Stat = (*TableStat)(nil)

// Kind implements Object.
func (*TableStat) Kind() Kind { return KindTableStat }

// GetID implements Object.
func (*TableStat) GetID() ID { return InvalidID }

// SetID implements Object. Statistics have no id.
func (*TableStat) SetID(ID) {}

// GetName implements Object.
func (s *TableStat) GetName() string { return s.Table }

// NameKey implements Object.
func (*TableStat) NameKey() (NameKey, bool) { return NameKey{}, false }

// AuxKey implements Object.
func (*TableStat) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// StatKey implements Stat.
func (s *TableStat) StatKey() StatKey { return MakeTableStatKey(s.Schema, s.Table) }

// Clone implements Object.
func (s *TableStat) Clone() Object {
	c := *s
	return &c
}

// Validate implements Object.
func (s *TableStat) Validate() error {
	if s.Schema == "" || s.Table == "" {
		return errors.New("table statistics require a schema and table name")
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (s *TableStat) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s rows=%d", s.StatKey(), redact.Safe(s.Rows))
}

func (s *TableStat) String() string { return objectString(s) }

// IndexStat holds the cardinality of one column of an index.
type IndexStat struct {
	Schema      string
	Table       string
	Index       string
	Column      string
	Cardinality uint64
	UpdateTime  int64
}

var _ Stat = (*IndexStat)(nil)

// Kind implements Object.
func (*IndexStat) Kind() Kind { return KindIndexStat }

// GetID implements Object.
func (*IndexStat) GetID() ID { return InvalidID }

// SetID implements Object. Statistics have no id.
func (*IndexStat) SetID(ID) {}

// GetName implements Object.
func (s *IndexStat) GetName() string { return s.Index }

// NameKey implements Object.
func (*IndexStat) NameKey() (NameKey, bool) { return NameKey{}, false }

// AuxKey implements Object.
func (*IndexStat) AuxKey() (AuxKey, bool) { return AuxKey{}, false }

// StatKey implements Stat.
func (s *IndexStat) StatKey() StatKey {
	return MakeIndexStatKey(s.Schema, s.Table, s.Index, s.Column)
}

// Clone implements Object.
func (s *IndexStat) Clone() Object {
	c := *s
	return &c
}

// Validate implements Object.
func (s *IndexStat) Validate() error {
	if s.Schema == "" || s.Table == "" || s.Index == "" || s.Column == "" {
		return errors.New("index statistics require a schema, table, index and column name")
	}
	return nil
}

// SafeFormat implements redact.SafeFormatter.
func (s *IndexStat) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s cardinality=%d", s.StatKey(), redact.Safe(s.Cardinality))
}

func (s *IndexStat) String() string { return objectString(s) }
