// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"os"

	"github.com/cockroachdb/ddcache/pkg/cli/cliflags"
	"github.com/cockroachdb/ddcache/pkg/dd/ddconfig"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// cliContext holds the flag values of one command tree and the
// configuration resolved from them.
//
// The flag variables must only be read by resolve. Commands use cfg.
type cliContext struct {
	configFile  string
	storeDir    string
	sdiDir      string
	verbosity   int
	capacities  []string
	fakeStorage bool
	printJSON   bool
	showMetrics bool

	// fs is where the configuration file is read from.
	fs  afero.Fs
	cfg ddconfig.Config
}

func setFlagFromEnv(f *pflag.FlagSet, flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		if value, set := os.LookupEnv(flagInfo.EnvVar); set {
			if err := f.Set(flagInfo.Name, value); err != nil {
				panic(err)
			}
		}
	}
}

// StringFlag creates a string flag and registers it with the FlagSet.
func StringFlag(f *pflag.FlagSet, valPtr *string, flagInfo cliflags.FlagInfo, defaultVal string) {
	f.StringVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, defaultVal, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// IntFlag creates an int flag and registers it with the FlagSet.
func IntFlag(f *pflag.FlagSet, valPtr *int, flagInfo cliflags.FlagInfo, defaultVal int) {
	f.IntVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, defaultVal, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo, defaultVal bool) {
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, defaultVal, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// StringArrayFlag creates a repeatable string flag and registers it with
// the FlagSet.
func StringArrayFlag(f *pflag.FlagSet, valPtr *[]string, flagInfo cliflags.FlagInfo) {
	f.StringArrayVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, nil, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

func (c *cliContext) registerFlags(f *pflag.FlagSet) {
	def := ddconfig.Default()
	StringFlag(f, &c.configFile, cliflags.Config, "")
	StringFlag(f, &c.storeDir, cliflags.StoreDir, def.StoreDir)
	StringFlag(f, &c.sdiDir, cliflags.SDIDir, def.SDIDir)
	IntFlag(f, &c.verbosity, cliflags.Verbosity, int(def.Verbosity))
	StringArrayFlag(f, &c.capacities, cliflags.Capacity)
	BoolFlag(f, &c.fakeStorage, cliflags.FakeStorage, false)
	BoolFlag(f, &c.showMetrics, cliflags.Metrics, false)
}

// resolve computes the configuration: the defaults, overridden by the
// configuration file, overridden by the flags given explicitly.
func (c *cliContext) resolve(f *pflag.FlagSet) error {
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	cfg := ddconfig.Default()
	if c.configFile != "" {
		var err error
		if cfg, err = ddconfig.Load(c.fs, c.configFile); err != nil {
			return err
		}
	}
	if f.Changed(cliflags.StoreDir.Name) {
		cfg.StoreDir = c.storeDir
	}
	if f.Changed(cliflags.SDIDir.Name) {
		cfg.SDIDir = c.sdiDir
	}
	if f.Changed(cliflags.Verbosity.Name) {
		cfg.Verbosity = int32(c.verbosity)
	}
	for _, a := range c.capacities {
		if err := cfg.SetCapacity(a); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.SetVerbosity(cfg.Verbosity)
	c.cfg = cfg
	return nil
}
