// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pebblestore

import (
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are the kind byte followed by the object fields in protobuf wire
// format. Zero-valued scalar fields are omitted, and unknown fields are
// skipped on decode so that fields can be added without rewriting stored
// records.

type encoder struct {
	b []byte
}

func (e *encoder) uint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) int(num protowire.Number, v int64) {
	e.uint(num, protowire.EncodeZigZag(v))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if v {
		e.uint(num, 1)
	}
}

func (e *encoder) id(num protowire.Number, v ddobj.ID) {
	e.uint(num, uint64(v))
}

func (e *encoder) string(num protowire.Number, s string) {
	if s == "" {
		return
	}
	e.repeatedString(num, s)
}

// repeatedString appends s even if it is empty, so that every element of a
// repeated field survives.
func (e *encoder) repeatedString(num protowire.Number, s string) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, s)
}

func (e *encoder) message(num protowire.Number, fn func(*encoder)) {
	var sub encoder
	fn(&sub)
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, sub.b)
}

// field is one decoded field. Exactly one of varint and bytes is
// meaningful, depending on the wire type.
type field struct {
	num    protowire.Number
	varint uint64
	bytes  []byte
}

func (f field) uint32() uint32 { return uint32(f.varint) }
func (f field) id() ddobj.ID { return ddobj.ID(f.varint) }
func (f field) bool() bool { return f.varint != 0 }
func (f field) int() int64 { return protowire.DecodeZigZag(f.varint) }
func (f field) string() string { return string(f.bytes) }
func (f field) message() []byte { return f.bytes }
func (f field) uint64() uint64 { return f.varint }

func forEachField(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			// Skipped.
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n >= 0 {
				b = b[n:]
				continue
			}
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// encodeObject returns the record value of obj.
func encodeObject(obj ddobj.Object) ([]byte, error) {
	e := encoder{b: []byte{byte(obj.Kind())}}
	switch o := obj.(type) {
	case *ddobj.Table:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.SchemaID)
		e.string(4, o.Engine)
		e.uint(5, o.SEPrivateID)
		e.id(6, o.TablespaceID)
		e.id(7, o.CollationID)
		e.string(8, o.Comment)
		e.bool(9, o.Hidden)
		encodeColumns(&e, 10, o.Columns)
		for _, idx := range o.Indexes {
			idx := idx
			e.message(11, func(e *encoder) {
				e.string(1, idx.Name)
				e.bool(2, idx.Unique)
				for _, c := range idx.Columns {
					e.repeatedString(3, c)
				}
				e.string(4, idx.SEPrivateData)
			})
		}
		e.string(12, o.SEPrivateData)
	case *ddobj.View:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.SchemaID)
		e.string(4, o.Definition)
		e.string(5, o.Definer)
		encodeColumns(&e, 6, o.Columns)
	case *ddobj.Schema:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.DefaultCollationID)
		e.bool(4, o.DefaultEncryption)
	case *ddobj.Tablespace:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.string(3, o.Engine)
		e.string(4, o.Comment)
		for _, f := range o.Files {
			e.repeatedString(5, f)
		}
		e.string(6, o.SEPrivateData)
	case *ddobj.Charset:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.DefaultCollationID)
		e.uint(4, uint64(o.MBMaxLen))
		e.string(5, o.Comment)
	case *ddobj.Collation:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.CharsetID)
		e.bool(4, o.IsDefault)
		e.string(5, o.PadAttribute)
		e.uint(6, uint64(o.SortLength))
	case *ddobj.Event:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.SchemaID)
		e.string(4, o.Definer)
		e.string(5, o.Definition)
		e.int(6, o.IntervalSeconds)
		e.bool(7, o.Enabled)
		e.string(8, o.Comment)
	case *ddobj.Function:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.SchemaID)
		e.string(4, o.Definer)
		e.string(5, o.Definition)
		encodeParameters(&e, 6, o.Parameters)
		e.string(7, o.ReturnType)
		e.bool(8, o.Deterministic)
	case *ddobj.Procedure:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.id(3, o.SchemaID)
		e.string(4, o.Definer)
		e.string(5, o.Definition)
		encodeParameters(&e, 6, o.Parameters)
	case *ddobj.SpatialReferenceSystem:
		e.id(1, o.ID)
		e.string(2, o.Name)
		e.string(3, o.Organization)
		e.uint(4, uint64(o.OrganizationCoordsysID))
		e.string(5, o.Definition)
		e.string(6, o.Description)
	case *ddobj.TableStat:
		e.string(1, o.Schema)
		e.string(2, o.Table)
		e.uint(3, o.Rows)
		e.uint(4, o.AvgRowLength)
		e.uint(5, o.DataLength)
		e.uint(6, o.IndexLength)
		e.uint(7, o.AutoIncrement)
		e.int(8, o.UpdateTime)
	case *ddobj.IndexStat:
		e.string(1, o.Schema)
		e.string(2, o.Table)
		e.string(3, o.Index)
		e.string(4, o.Column)
		e.uint(5, o.Cardinality)
		e.int(6, o.UpdateTime)
	default:
		return nil, errors.AssertionFailedf("cannot encode %T", obj)
	}
	return e.b, nil
}

func encodeColumns(e *encoder, num protowire.Number, cols []ddobj.Column) {
	for _, c := range cols {
		c := c
		e.message(num, func(e *encoder) {
			e.string(1, c.Name)
			e.string(2, c.Type)
			e.bool(3, c.Nullable)
			e.string(4, c.Default)
			e.id(5, c.CollationID)
		})
	}
}

func encodeParameters(e *encoder, num protowire.Number, params []ddobj.Parameter) {
	for _, p := range params {
		p := p
		e.message(num, func(e *encoder) {
			e.string(1, p.Name)
			e.string(2, p.Type)
			e.uint(3, uint64(p.Mode))
		})
	}
}

// decodeObject restores the object encoded in a record value.
func decodeObject(value []byte) (ddobj.Object, error) {
	if len(value) == 0 {
		return nil, errors.New("empty record")
	}
	obj, err := ddobj.New(ddobj.Kind(value[0]))
	if err != nil {
		return nil, err
	}
	var fn func(field) error
	switch o := obj.(type) {
	case *ddobj.Table:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.SchemaID = f.id()
			case 4:
				o.Engine = f.string()
			case 5:
				o.SEPrivateID = f.uint64()
			case 6:
				o.TablespaceID = f.id()
			case 7:
				o.CollationID = f.id()
			case 8:
				o.Comment = f.string()
			case 9:
				o.Hidden = f.bool()
			case 10:
				c, err := decodeColumn(f.message())
				if err != nil {
					return err
				}
				o.Columns = append(o.Columns, c)
			case 11:
				idx, err := decodeIndex(f.message())
				if err != nil {
					return err
				}
				o.Indexes = append(o.Indexes, idx)
			case 12:
				o.SEPrivateData = f.string()
			}
			return nil
		}
	case *ddobj.View:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.SchemaID = f.id()
			case 4:
				o.Definition = f.string()
			case 5:
				o.Definer = f.string()
			case 6:
				c, err := decodeColumn(f.message())
				if err != nil {
					return err
				}
				o.Columns = append(o.Columns, c)
			}
			return nil
		}
	case *ddobj.Schema:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.DefaultCollationID = f.id()
			case 4:
				o.DefaultEncryption = f.bool()
			}
			return nil
		}
	case *ddobj.Tablespace:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.Engine = f.string()
			case 4:
				o.Comment = f.string()
			case 5:
				o.Files = append(o.Files, f.string())
			case 6:
				o.SEPrivateData = f.string()
			}
			return nil
		}
	case *ddobj.Charset:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.DefaultCollationID = f.id()
			case 4:
				o.MBMaxLen = f.uint32()
			case 5:
				o.Comment = f.string()
			}
			return nil
		}
	case *ddobj.Collation:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.CharsetID = f.id()
			case 4:
				o.IsDefault = f.bool()
			case 5:
				o.PadAttribute = f.string()
			case 6:
				o.SortLength = f.uint32()
			}
			return nil
		}
	case *ddobj.Event:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.SchemaID = f.id()
			case 4:
				o.Definer = f.string()
			case 5:
				o.Definition = f.string()
			case 6:
				o.IntervalSeconds = f.int()
			case 7:
				o.Enabled = f.bool()
			case 8:
				o.Comment = f.string()
			}
			return nil
		}
	case *ddobj.Function:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.SchemaID = f.id()
			case 4:
				o.Definer = f.string()
			case 5:
				o.Definition = f.string()
			case 6:
				p, err := decodeParameter(f.message())
				if err != nil {
					return err
				}
				o.Parameters = append(o.Parameters, p)
			case 7:
				o.ReturnType = f.string()
			case 8:
				o.Deterministic = f.bool()
			}
			return nil
		}
	case *ddobj.Procedure:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.SchemaID = f.id()
			case 4:
				o.Definer = f.string()
			case 5:
				o.Definition = f.string()
			case 6:
				p, err := decodeParameter(f.message())
				if err != nil {
					return err
				}
				o.Parameters = append(o.Parameters, p)
			}
			return nil
		}
	case *ddobj.SpatialReferenceSystem:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.ID = f.id()
			case 2:
				o.Name = f.string()
			case 3:
				o.Organization = f.string()
			case 4:
				o.OrganizationCoordsysID = f.uint32()
			case 5:
				o.Definition = f.string()
			case 6:
				o.Description = f.string()
			}
			return nil
		}
	case *ddobj.TableStat:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.Schema = f.string()
			case 2:
				o.Table = f.string()
			case 3:
				o.Rows = f.uint64()
			case 4:
				o.AvgRowLength = f.uint64()
			case 5:
				o.DataLength = f.uint64()
			case 6:
				o.IndexLength = f.uint64()
			case 7:
				o.AutoIncrement = f.uint64()
			case 8:
				o.UpdateTime = f.int()
			}
			return nil
		}
	case *ddobj.IndexStat:
		fn = func(f field) error {
			switch f.num {
			case 1:
				o.Schema = f.string()
			case 2:
				o.Table = f.string()
			case 3:
				o.Index = f.string()
			case 4:
				o.Column = f.string()
			case 5:
				o.Cardinality = f.uint64()
			case 6:
				o.UpdateTime = f.int()
			}
			return nil
		}
	default:
		return nil, errors.AssertionFailedf("cannot decode %T", obj)
	}
	if err := forEachField(value[1:], fn); err != nil {
		return nil, errors.Wrapf(err, "decoding %s record", obj.Kind())
	}
	return obj, nil
}

func decodeColumn(b []byte) (ddobj.Column, error) {
	var c ddobj.Column
	err := forEachField(b, func(f field) error {
		switch f.num {
		case 1:
			c.Name = f.string()
		case 2:
			c.Type = f.string()
		case 3:
			c.Nullable = f.bool()
		case 4:
			c.Default = f.string()
		case 5:
			c.CollationID = f.id()
		}
		return nil
	})
	return c, err
}

func decodeIndex(b []byte) (ddobj.Index, error) {
	var idx ddobj.Index
	err := forEachField(b, func(f field) error {
		switch f.num {
		case 1:
			idx.Name = f.string()
		case 2:
			idx.Unique = f.bool()
		case 3:
			idx.Columns = append(idx.Columns, f.string())
		case 4:
			idx.SEPrivateData = f.string()
		}
		return nil
	})
	return idx, err
}

func decodeParameter(b []byte) (ddobj.Parameter, error) {
	var p ddobj.Parameter
	err := forEachField(b, func(f field) error {
		switch f.num {
		case 1:
			p.Name = f.string()
		case 2:
			p.Type = f.string()
		case 3:
			p.Mode = ddobj.ParameterMode(f.varint)
		}
		return nil
	})
	return p, err
}
