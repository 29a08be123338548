// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cliflags describes the command-line flags of ddcache.
package cliflags

import "github.com/spf13/pflag"

// FlagInfo describes a command-line flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string
	// Shorthand is the short form of the flag, if any.
	Shorthand string
	// EnvVar names the environment variable the flag defaults from.
	EnvVar string
	// Description is the help text.
	Description string
}

// Usage returns the help text of the flag, mentioning its environment
// variable.
func (f FlagInfo) Usage() string {
	if f.EnvVar == "" {
		return f.Description
	}
	return f.Description + " Environment variable: " + f.EnvVar + "."
}

// Lookup returns the flag f in fs.
func (f FlagInfo) Lookup(fs *pflag.FlagSet) *pflag.Flag {
	return fs.Lookup(f.Name)
}

var (
	Config = FlagInfo{
		Name:        "config",
		Shorthand:   "c",
		EnvVar:      "DDCACHE_CONFIG",
		Description: `Configuration file, in YAML (.yaml, .yml) or TOML (.toml).`,
	}

	StoreDir = FlagInfo{
		Name:        "store-dir",
		EnvVar:      "DDCACHE_STORE_DIR",
		Description: `Directory of the dictionary store. The store is kept in memory if empty.`,
	}

	SDIDir = FlagInfo{
		Name:        "sdi-dir",
		EnvVar:      "DDCACHE_SDI_DIR",
		Description: `Directory serialized definitions are written to. Disabled if empty.`,
	}

	Verbosity = FlagInfo{
		Name:        "verbosity",
		Shorthand:   "v",
		Description: `Log verbosity level.`,
	}

	Capacity = FlagInfo{
		Name: "capacity",
		Description: `Shared cache capacity of a partition, as partition=capacity.
May be repeated.`,
	}

	FakeStorage = FlagInfo{
		Name:        "fake-storage",
		Description: `Keep every dictionary object in memory and never write the store.`,
	}

	JSON = FlagInfo{
		Name:        "json",
		Description: `Print objects as JSON.`,
	}

	Metrics = FlagInfo{
		Name:        "metrics",
		Description: `Print the shared cache metrics after the command.`,
	}
)
