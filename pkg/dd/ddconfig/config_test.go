// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package ddconfig

import (
	"testing"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, DefaultMaxConnections, c.Capacities[ddobj.PartitionAbstractTable])
	require.Equal(t, 64, c.Capacities[ddobj.PartitionCharset])
	require.Equal(t, 256, c.Capacities[ddobj.PartitionSpatialReferenceSystem])
	require.Empty(t, c.StoreDir)
}

func TestLoad(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewOsFs())
	for _, path := range []string{"testdata/ddcache.yaml", "testdata/ddcache.toml"} {
		t.Run(path, func(t *testing.T) {
			c, err := Load(fs, path)
			require.NoError(t, err)
			want := Default()
			want.StoreDir = "/var/lib/ddcache/store"
			want.SDIDir = "/var/lib/ddcache/sdi"
			want.Verbosity = 2
			want.Capacities[ddobj.PartitionAbstractTable] = 1000
			want.Capacities[ddobj.PartitionCharset] = 32
			require.Equal(t, want, c)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		format Format
		data   string
		err    string
	}{
		{YAML, "bogus: 1\n", "field bogus not found"},
		{YAML, "capacities:\n  tables: 5\n", `unknown partition "tables"`},
		{YAML, "capacities:\n  schema: 0\n", "must be positive"},
		{TOML, "bogus = 1\n", `unknown configuration setting "bogus"`},
		{TOML, "verbosity = \"x\"\n", "parsing TOML"},
	} {
		_, err := Parse([]byte(tc.data), tc.format)
		require.ErrorContains(t, err, tc.err, "%q", tc.data)
	}

	c, err := Parse(nil, YAML)
	require.NoError(t, err)
	require.Equal(t, Default(), c)

	_, err = Load(afero.NewMemMapFs(), "ddcache.json")
	require.ErrorContains(t, err, "unknown configuration file extension")
	_, err = Load(afero.NewMemMapFs(), "missing.yml")
	require.ErrorContains(t, err, "reading configuration")
}

func TestSetCapacity(t *testing.T) {
	c := Default()
	require.NoError(t, c.SetCapacity("event=12"))
	require.Equal(t, 12, c.Capacities[ddobj.PartitionEvent])
	// The defaults are left alone.
	require.Equal(t, 256, Default().Capacities[ddobj.PartitionEvent])

	require.Error(t, c.SetCapacity("event"))
	require.Error(t, c.SetCapacity("event=x"))
	require.Error(t, c.SetCapacity("nope=3"))
	require.Error(t, c.SetCapacity("event=-1"))
	require.Equal(t, 12, c.Capacities[ddobj.PartitionEvent])
}
