// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements the ddcache command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"text/tabwriter"

	"github.com/cockroachdb/ddcache/pkg/cli/exit"
	"github.com/cockroachdb/ddcache/pkg/dd/bootstrap"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// Proxy to allow overrides in tests.
var osStderr io.Writer = os.Stderr

// errObjectNotFound is returned by 'get' when the dictionary has no such
// object.
var errObjectNotFound = errors.New("object not found")

// errFlag marks errors in the command-line parameters.
var errFlag = errors.New("invalid command-line flags")

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "output version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 1, 2, ' ', 0)
			fmt.Fprintf(tw, "Dictionary Version:\t%d\n", bootstrap.Version)
			fmt.Fprintf(tw, "Go Version:\t%s\n", runtime.Version())
			fmt.Fprintf(tw, "Platform:\t%s %s/%s\n", runtime.Compiler, runtime.GOOS, runtime.GOARCH)
			if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprintf(tw, "Module:\t%s %s\n", info.Main.Path, info.Main.Version)
			}
			return tw.Flush()
		},
	}
}

// NewDDCacheCmd returns the root command with all subcommands attached.
// Each call returns a fresh command tree with its own flag state.
func NewDDCacheCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	ctx := &cliContext{}
	root := &cobra.Command{
		Use:   "ddcache [command] (flags)",
		Short: "data dictionary object cache",
		Long: `
Inspect and bootstrap a data dictionary and its shared object cache.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.resolve(cmd.Flags()); err != nil {
				return errors.Mark(err, errFlag)
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errFlag)
	})
	ctx.registerFlags(root.PersistentFlags())

	root.AddCommand(
		newBootstrapCmd(ctx),
		newDumpCmd(ctx),
		newGetCmd(ctx),

		// Miscellaneous commands.
		newVersionCmd(),
	)
	return root
}

// Run executes the command line args and returns its error.
func Run(args []string) error {
	cmd := NewDDCacheCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// Main is the entry point of the ddcache binary.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintf(osStderr, "ERROR: %v\n", err)
		os.Exit(exitCode(err).Int())
	}
	os.Exit(exit.Success().Int())
}

func exitCode(err error) exit.Code {
	switch {
	case err == nil:
		return exit.Success()
	case errors.Is(err, errFlag):
		return exit.CommandLineFlagError()
	case errors.Is(err, errObjectNotFound):
		return exit.ObjectNotFound()
	case errors.Is(err, bootstrap.ErrCoreMetadataNotFound):
		return exit.FatalError()
	default:
		return exit.UnspecifiedError()
	}
}
