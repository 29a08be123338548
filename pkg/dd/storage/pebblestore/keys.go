// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pebblestore

import (
	"bytes"
	"encoding/binary"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
)

// Key layout. Integers are big endian so that keys sort numerically.
//
//	r <partition> <id>                              -> record
//	n <partition> <parent id> <type> <name>         -> <id> <kind>
//	a <partition> <engine> 0x00 <private id>        -> <id>
//	s <kind> <schema> 0x00 <table> 0x00 <index> 0x00 <column> -> record
//	m/<name>                                        -> store metadata
const (
	recordPrefix byte = 'r'
	namePrefix   byte = 'n'
	auxPrefix    byte = 'a'
	statPrefix   byte = 's'
)

var (
	tablesCreatedKey = []byte("m/tables_created")
	versionKey       = []byte("m/version")
)

func appendID(b []byte, id ddobj.ID) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

func recordKey(p ddobj.Partition, id ddobj.ID) []byte {
	return appendID([]byte{recordPrefix, byte(p)}, id)
}

// recordSpan returns the bounds of the records of partition p.
func recordSpan(p ddobj.Partition) (lower, upper []byte) {
	return []byte{recordPrefix, byte(p)}, []byte{recordPrefix, byte(p) + 1}
}

func decodeRecordKey(k []byte) (ddobj.ID, error) {
	if len(k) != 10 || k[0] != recordPrefix {
		return 0, errors.AssertionFailedf("malformed record key %x", k)
	}
	return ddobj.ID(binary.BigEndian.Uint64(k[2:])), nil
}

func nameKeyPrefix(p ddobj.Partition, parentID ddobj.ID) []byte {
	return appendID([]byte{namePrefix, byte(p)}, parentID)
}

func nameKey(p ddobj.Partition, k ddobj.NameKey) []byte {
	b := append(nameKeyPrefix(p, k.ParentID), byte(k.Type))
	return append(b, k.Name...)
}

func decodeNameKey(k []byte) (ddobj.NameKey, error) {
	if len(k) < 11 || k[0] != namePrefix {
		return ddobj.NameKey{}, errors.AssertionFailedf("malformed name key %x", k)
	}
	return ddobj.NameKey{
		ParentID: ddobj.ID(binary.BigEndian.Uint64(k[2:10])),
		Type:     ddobj.Kind(k[10]),
		Name:     string(k[11:]),
	}, nil
}

func nameValue(id ddobj.ID, kind ddobj.Kind) []byte {
	return append(appendID(nil, id), byte(kind))
}

func decodeNameValue(v []byte) (ddobj.ID, ddobj.Kind, error) {
	if len(v) != 9 {
		return 0, 0, errors.AssertionFailedf("malformed name index value %x", v)
	}
	return ddobj.ID(binary.BigEndian.Uint64(v)), ddobj.Kind(v[8]), nil
}

func auxKey(p ddobj.Partition, k ddobj.AuxKey) []byte {
	b := append([]byte{auxPrefix, byte(p)}, k.Engine...)
	b = append(b, 0)
	return binary.BigEndian.AppendUint64(b, k.PrivateID)
}

func idValue(id ddobj.ID) []byte { return appendID(nil, id) }

func decodeIDValue(v []byte) (ddobj.ID, error) {
	if len(v) != 8 {
		return 0, errors.AssertionFailedf("malformed id value %x", v)
	}
	return ddobj.ID(binary.BigEndian.Uint64(v)), nil
}

func statKey(k ddobj.StatKey) []byte {
	var buf bytes.Buffer
	buf.WriteByte(statPrefix)
	buf.WriteByte(byte(k.Kind))
	for i, s := range []string{k.Schema, k.Table, k.Index, k.Column} {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.WriteString(s)
	}
	return buf.Bytes()
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
