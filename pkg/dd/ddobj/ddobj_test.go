// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddobj

import (
	"testing"

	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func TestKindPartition(t *testing.T) {
	for _, tc := range []struct {
		kind      Kind
		partition Partition
	}{
		{KindTable, PartitionAbstractTable},
		{KindView, PartitionAbstractTable},
		{KindSchema, PartitionSchema},
		{KindFunction, PartitionRoutine},
		{KindProcedure, PartitionRoutine},
		{KindSpatialReferenceSystem, PartitionSpatialReferenceSystem},
		{KindTableStat, PartitionInvalid},
		{KindIndexStat, PartitionInvalid},
	} {
		t.Run(tc.kind.String(), func(t *testing.T) {
			require.Equal(t, tc.partition, tc.kind.Partition())
			require.Equal(t, tc.partition != PartitionInvalid, tc.kind.IsCached())
		})
	}
	require.False(t, KindInvalid.Valid())
	require.Len(t, AllKinds, int(numKinds)-1)
}

func TestByName(t *testing.T) {
	for _, k := range AllKinds {
		got, ok := KindByName(k.String())
		require.True(t, ok)
		require.Equal(t, k, got)
	}
	k, ok := KindByName("spatial_reference_system")
	require.True(t, ok)
	require.Equal(t, KindSpatialReferenceSystem, k)
	_, ok = KindByName("nope")
	require.False(t, ok)

	for _, p := range AllPartitions {
		got, ok := PartitionByName(p.String())
		require.True(t, ok)
		require.Equal(t, p, got)
	}
}

func TestNameKeys(t *testing.T) {
	tab := &Table{ID: 5, Name: "t1", SchemaID: 2, Engine: "InnoDB", SEPrivateID: 77}
	nk, ok := tab.NameKey()
	require.True(t, ok)
	require.Equal(t, MakeItemNameKey(2, "t1"), nk)
	ak, ok := tab.AuxKey()
	require.True(t, ok)
	require.Equal(t, MakeSEPrivateIDKey("InnoDB", 77), ak)

	// A view with the same name in the same schema collides with the table.
	v := &View{Name: "t1", SchemaID: 2}
	vk, _ := v.NameKey()
	require.Equal(t, nk, vk)

	// Functions and procedures do not.
	f := &Function{Name: "r", SchemaID: 2}
	p := &Procedure{Name: "r", SchemaID: 2}
	fk, _ := f.NameKey()
	pk, _ := p.NameKey()
	require.NotEqual(t, fk, pk)

	// Unnamed objects expose no name key.
	_, ok = (&Schema{ID: 1}).NameKey()
	require.False(t, ok)
	_, ok = (&Table{Name: "x", SchemaID: 1, Engine: "InnoDB"}).AuxKey()
	require.False(t, ok)

	_, ok = KeyOf(&Schema{Name: "s"}, IDKeyType)
	require.False(t, ok)
	k, ok := KeyOf(&Schema{ID: 3, Name: "s"}, IDKeyType)
	require.True(t, ok)
	require.Equal(t, MakeIDKey(3), k)
	k, ok = KeyOf(&IndexStat{Schema: "s", Table: "t", Index: "i", Column: "c"}, StatKeyType)
	require.True(t, ok)
	require.Equal(t, MakeIndexStatKey("s", "t", "i", "c"), k)
}

func TestClone(t *testing.T) {
	orig := &Table{
		ID:       1,
		Name:     "t",
		SchemaID: 2,
		Engine:   "InnoDB",
		Columns:  []Column{{Name: "a", Type: "int"}, {Name: "b", Type: "text"}},
		Indexes:  []Index{{Name: "primary", Unique: true, Columns: []string{"a"}}},
	}
	c := orig.Clone().(*Table)
	require.Equal(t, orig, c)
	c.Columns[0].Name = "z"
	c.Indexes[0].Columns[0] = "z"
	c.Name = "u"
	require.Equal(t, "a", orig.Columns[0].Name)
	require.Equal(t, "a", orig.Indexes[0].Columns[0])
	require.Equal(t, "t", orig.Name)

	ts := &Tablespace{ID: 3, Name: "ts", Engine: "InnoDB"}
	require.Equal(t, ts, ts.Clone())
	f := &Function{ID: 4, Name: "f", SchemaID: 2, ReturnType: "int",
		Parameters: []Parameter{{Name: "x", Type: "int"}}}
	fc := f.Clone().(*Function)
	fc.Parameters[0].Name = "y"
	require.Equal(t, "x", f.Parameters[0].Name)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		obj  Object
		err  string
	}{
		{"schema", &Schema{Name: "s"}, ""},
		{"unnamed schema", &Schema{}, "empty name"},
		{"table without schema", &Table{Name: "t", Engine: "InnoDB"}, "does not belong to a schema"},
		{"table without engine", &Table{Name: "t", SchemaID: 1}, "has no engine"},
		{"duplicate column", &Table{Name: "t", SchemaID: 1, Engine: "InnoDB",
			Columns: []Column{{Name: "a"}, {Name: "a"}}}, "duplicate column"},
		{"bad index column", &Table{Name: "t", SchemaID: 1, Engine: "InnoDB",
			Columns: []Column{{Name: "a"}},
			Indexes: []Index{{Name: "i", Columns: []string{"b"}}}}, "unknown column"},
		{"view", &View{Name: "v", SchemaID: 1, Definition: "SELECT 1"}, ""},
		{"collation pad", &Collation{Name: "c", CharsetID: 1, PadAttribute: "X"}, "pad attribute"},
		{"charset", &Charset{Name: "utf8mb4", MBMaxLen: 4}, ""},
		{"function out param", &Function{Name: "f", SchemaID: 1, ReturnType: "int",
			Parameters: []Parameter{{Name: "a", Type: "int", Mode: ParameterOut}}}, "must be IN"},
		{"procedure", &Procedure{Name: "p", SchemaID: 1,
			Parameters: []Parameter{{Name: "a", Type: "int", Mode: ParameterInOut}}}, ""},
		{"event interval", &Event{Name: "e", SchemaID: 1, IntervalSeconds: -1}, "negative interval"},
		{"srs", &SpatialReferenceSystem{Name: "WGS 84"}, "empty definition"},
		{"index stat", &IndexStat{Schema: "s", Table: "t"}, "require a schema"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.obj.Validate()
			if tc.err == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestNew(t *testing.T) {
	for _, k := range AllKinds {
		o, err := New(k)
		require.NoError(t, err)
		require.Equal(t, k, o.Kind())
	}
	_, err := New(KindInvalid)
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	tab := &Table{ID: 7, Name: "secret", SchemaID: 2, Engine: "InnoDB"}
	require.Equal(t, `table 7 "secret" schema=2 engine=InnoDB`, tab.String())
	redacted := redact.Sprint(tab).Redact().StripMarkers()
	require.NotContains(t, redacted, "secret")
	require.Contains(t, redacted, "table 7")

	require.Equal(t, `2.function:"f"`, MakeRoutineNameKey(2, KindFunction, "f").String())
	require.Equal(t, `id=3`, MakeIDKey(3).String())
}
