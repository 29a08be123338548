// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package ddconfig holds the configuration of a data dictionary
// environment. Configuration files are YAML or TOML, chosen by extension;
// values missing from a file keep their defaults.
package ddconfig

import (
	"bytes"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultMaxConnections sizes the abstract table partition, which holds
// roughly one open table per connection.
const DefaultMaxConnections = 151

// defaultCapacities are the stock shared cache partition sizes.
var defaultCapacities = map[ddobj.Partition]int{
	ddobj.PartitionAbstractTable:          DefaultMaxConnections,
	ddobj.PartitionSchema:                 256,
	ddobj.PartitionTablespace:             256,
	ddobj.PartitionCharset:                64,
	ddobj.PartitionCollation:              256,
	ddobj.PartitionEvent:                  256,
	ddobj.PartitionRoutine:                256,
	ddobj.PartitionSpatialReferenceSystem: 256,
}

// Config configures a dictionary environment.
type Config struct {
	// StoreDir is the directory of the record store. An empty StoreDir
	// keeps the store in memory.
	StoreDir string
	// SDIDir is the directory serialized definitions are written to. An
	// empty SDIDir disables them.
	SDIDir string
	// Verbosity is the log verbosity level.
	Verbosity int32
	// Capacities bounds the number of unused elements each shared cache
	// partition keeps.
	Capacities map[ddobj.Partition]int
}

// Default returns the default configuration.
func Default() Config {
	c := Config{Capacities: make(map[ddobj.Partition]int, len(defaultCapacities))}
	for p, n := range defaultCapacities {
		c.Capacities[p] = n
	}
	return c
}

// Validate checks that every cached partition has a positive capacity.
func (c Config) Validate() error {
	for _, p := range ddobj.AllPartitions {
		if n := c.Capacities[p]; n <= 0 {
			return errors.Newf("capacity of partition %s must be positive, not %d", p, n)
		}
	}
	return nil
}

// file is the on-disk form of Config. Pointers tell absent values from
// zero ones.
type file struct {
	StoreDir   *string        `yaml:"store_dir" toml:"store_dir"`
	SDIDir     *string        `yaml:"sdi_dir" toml:"sdi_dir"`
	Verbosity  *int32         `yaml:"verbosity" toml:"verbosity"`
	Capacities map[string]int `yaml:"capacities" toml:"capacities"`
}

// Format is a configuration file format.
type Format int

const (
	// YAML is the default format.
	YAML Format = iota
	TOML
)

// FormatOf returns the format of a configuration file by its extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return 0, errors.Newf("unknown configuration file extension %q", ext)
	}
}

// Load reads the configuration file at path from fs.
func Load(fs afero.Fs, path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading configuration")
	}
	c, err := Parse(data, format)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// Parse parses a configuration in the given format on top of the defaults.
// Unknown settings are rejected.
func Parse(data []byte, format Format) (Config, error) {
	var f file
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF.
		if err := dec.Decode(&f); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return Config{}, errors.Wrap(err, "parsing YAML configuration")
		}
	case TOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return Config{}, errors.Wrap(err, "parsing TOML configuration")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.Newf("unknown configuration setting %q", undecoded[0].String())
		}
	default:
		return Config{}, errors.AssertionFailedf("unknown configuration format %d", format)
	}
	return f.apply(Default())
}

// apply overlays f onto c. The capacities of c are copied, not modified.
func (f file) apply(c Config) (Config, error) {
	caps := make(map[ddobj.Partition]int, len(c.Capacities))
	for p, n := range c.Capacities {
		caps[p] = n
	}
	c.Capacities = caps
	if f.StoreDir != nil {
		c.StoreDir = *f.StoreDir
	}
	if f.SDIDir != nil {
		c.SDIDir = *f.SDIDir
	}
	if f.Verbosity != nil {
		c.Verbosity = *f.Verbosity
	}
	names := make([]string, 0, len(f.Capacities))
	for name := range f.Capacities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, ok := ddobj.PartitionByName(name)
		if !ok {
			return Config{}, errors.Newf("unknown partition %q", name)
		}
		c.Capacities[p] = f.Capacities[name]
	}
	return c, c.Validate()
}

// SetCapacity parses a "partition=capacity" assignment, as given on the
// command line, into c.
func (c *Config) SetCapacity(assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return errors.Newf("capacity %q is not of the form partition=capacity", assignment)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return errors.Wrapf(err, "capacity of partition %s", name)
	}
	updated, err := file{Capacities: map[string]int{strings.TrimSpace(name): n}}.apply(*c)
	if err != nil {
		return err
	}
	*c = updated
	return nil
}
