// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package bootstrap

import "github.com/cockroachdb/ddcache/pkg/dd/ddobj"

const (
	// SchemaName is the name of the schema holding the dictionary tables.
	SchemaName = "mysql"
	// TablespaceName is the name of the tablespace holding the dictionary
	// tables.
	TablespaceName = "mysql"
	// Engine stores the dictionary tables.
	Engine = "InnoDB"

	// Version is the dictionary version a store is stamped with once
	// bootstrap completes.
	Version uint32 = 80023
)

// coreObjects are the objects the dictionary needs to read itself.
type coreObjects struct {
	schema     *ddobj.Schema
	tablespace *ddobj.Tablespace
	tables     []*ddobj.Table
}

func idColumn() ddobj.Column { return ddobj.Column{Name: "id", Type: "bigint unsigned"} }

func nameColumn() ddobj.Column {
	return ddobj.Column{Name: "name", Type: "varchar(64)", CollationID: utf8mb3BinCollationID}
}

func primaryKey() ddobj.Index {
	return ddobj.Index{Name: "PRIMARY", Unique: true, Columns: []string{"id"}}
}

// coreTableDefs describes the dictionary tables, in creation order.
var coreTableDefs = []struct {
	name    string
	columns []ddobj.Column
	indexes []ddobj.Index
}{
	{
		name: "schemata",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "default_collation_id", Type: "bigint unsigned"},
			{Name: "default_encryption", Type: "enum('NO','YES')"}},
		indexes: []ddobj.Index{primaryKey(), {Name: "name", Unique: true, Columns: []string{"name"}}},
	},
	{
		name: "tables",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "schema_id", Type: "bigint unsigned"},
			{Name: "engine", Type: "varchar(64)"},
			{Name: "se_private_id", Type: "bigint unsigned", Nullable: true},
			{Name: "tablespace_id", Type: "bigint unsigned", Nullable: true},
			{Name: "comment", Type: "varchar(2048)"}},
		indexes: []ddobj.Index{primaryKey(),
			{Name: "schema_id", Unique: true, Columns: []string{"schema_id", "name"}},
			{Name: "engine", Unique: true, Columns: []string{"engine", "se_private_id"}}},
	},
	{
		name: "columns",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "table_id", Type: "bigint unsigned"},
			{Name: "type", Type: "varchar(64)"},
			{Name: "is_nullable", Type: "tinyint(1)"}},
		indexes: []ddobj.Index{primaryKey(),
			{Name: "table_id", Unique: true, Columns: []string{"table_id", "name"}}},
	},
	{
		name: "indexes",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "table_id", Type: "bigint unsigned"},
			{Name: "is_unique", Type: "tinyint(1)"}},
		indexes: []ddobj.Index{primaryKey(),
			{Name: "table_id", Unique: true, Columns: []string{"table_id", "name"}}},
	},
	{
		name: "tablespaces",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "engine", Type: "varchar(64)"}},
		indexes: []ddobj.Index{primaryKey(), {Name: "name", Unique: true, Columns: []string{"name"}}},
	},
	{
		name: "character_sets",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "default_collation_id", Type: "bigint unsigned"},
			{Name: "mb_max_length", Type: "int unsigned"}},
		indexes: []ddobj.Index{primaryKey(), {Name: "name", Unique: true, Columns: []string{"name"}}},
	},
	{
		name: "collations",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "character_set_id", Type: "bigint unsigned"},
			{Name: "is_compiled", Type: "tinyint(1)"}},
		indexes: []ddobj.Index{primaryKey(), {Name: "name", Unique: true, Columns: []string{"name"}}},
	},
	{
		name: "events",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "schema_id", Type: "bigint unsigned"},
			{Name: "definition", Type: "longblob"}},
		indexes: []ddobj.Index{primaryKey(),
			{Name: "schema_id", Unique: true, Columns: []string{"schema_id", "name"}}},
	},
	{
		name: "routines",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "schema_id", Type: "bigint unsigned"},
			{Name: "type", Type: "enum('FUNCTION','PROCEDURE')"},
			{Name: "definition", Type: "longblob", Nullable: true}},
		indexes: []ddobj.Index{primaryKey(),
			{Name: "schema_id", Unique: true, Columns: []string{"schema_id", "type", "name"}}},
	},
	{
		name: "st_spatial_reference_systems",
		columns: []ddobj.Column{idColumn(), nameColumn(),
			{Name: "organization", Type: "varchar(256)", Nullable: true},
			{Name: "definition", Type: "varchar(4096)"}},
		indexes: []ddobj.Index{primaryKey()},
	},
	{
		name: "table_stats",
		columns: []ddobj.Column{
			{Name: "schema_name", Type: "varchar(64)"},
			{Name: "table_name", Type: "varchar(64)"},
			{Name: "table_rows", Type: "bigint unsigned", Nullable: true}},
		indexes: []ddobj.Index{
			{Name: "PRIMARY", Unique: true, Columns: []string{"schema_name", "table_name"}}},
	},
	{
		name: "index_stats",
		columns: []ddobj.Column{
			{Name: "schema_name", Type: "varchar(64)"},
			{Name: "table_name", Type: "varchar(64)"},
			{Name: "index_name", Type: "varchar(64)"},
			{Name: "column_name", Type: "varchar(64)"},
			{Name: "cardinality", Type: "bigint", Nullable: true}},
		indexes: []ddobj.Index{{Name: "PRIMARY", Unique: true,
			Columns: []string{"schema_name", "table_name", "index_name", "column_name"}}},
	},
}

// newCoreObjects returns fresh scaffolding without ids.
func newCoreObjects() coreObjects {
	c := coreObjects{
		schema: &ddobj.Schema{Name: SchemaName, DefaultCollationID: utf8mb3BinCollationID},
		tablespace: &ddobj.Tablespace{
			Name: TablespaceName, Engine: Engine, Files: []string{"mysql.ibd"},
		},
	}
	for i, def := range coreTableDefs {
		c.tables = append(c.tables, &ddobj.Table{
			Name:        def.name,
			Engine:      Engine,
			SEPrivateID: uint64(i + 1),
			CollationID: utf8mb3BinCollationID,
			Hidden:      true,
			Columns:     append([]ddobj.Column(nil), def.columns...),
			Indexes:     append([]ddobj.Index(nil), def.indexes...),
		})
	}
	return c
}

// place puts the tables into the schema and tablespace, using their
// current ids.
func (c coreObjects) place() {
	for _, t := range c.tables {
		t.SchemaID = c.schema.ID
		t.TablespaceID = c.tablespace.ID
	}
}

// all returns the objects in creation order: the schema, the tablespace,
// then the tables.
func (c coreObjects) all() []ddobj.Object {
	objs := []ddobj.Object{c.schema, c.tablespace}
	for _, t := range c.tables {
		objs = append(objs, t)
	}
	return objs
}

// clone returns a deep copy of c.
func (c coreObjects) clone() coreObjects {
	out := coreObjects{
		schema:     c.schema.Clone().(*ddobj.Schema),
		tablespace: c.tablespace.Clone().(*ddobj.Tablespace),
	}
	for _, t := range c.tables {
		out.tables = append(out.tables, t.Clone().(*ddobj.Table))
	}
	return out
}
