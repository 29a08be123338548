// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/cockroachdb/ddcache/pkg/cli/cliflags"
	"github.com/cockroachdb/ddcache/pkg/dd"
	"github.com/cockroachdb/ddcache/pkg/dd/bootstrap"
	"github.com/cockroachdb/ddcache/pkg/dd/client"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/mdl"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// openDictionary opens the dictionary described by the resolved
// configuration and brings it up. An empty store is initialized, an
// existing one restarted. The caller closes the returned Env.
func (c *cliContext) openDictionary(
	ctx context.Context, reg *prometheus.Registry,
) (_ *dd.Env, initialized bool, retErr error) {
	opts := []dd.EnvOption{dd.WithMetricsRegistry(reg)}
	if c.fakeStorage {
		opts = append(opts, dd.WithFakeStorage())
	}
	env, err := dd.NewEnv(ctx, c.cfg, opts...)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if retErr != nil {
			if err := env.Close(ctx); err != nil {
				log.Warningf(ctx, "closing dictionary: %v", err)
			}
		}
	}()
	created, err := env.Store.TablesCreated(ctx)
	if err != nil {
		return nil, false, err
	}
	if created {
		return env, false, bootstrap.Restart(ctx, env)
	}
	return env, true, bootstrap.Initialize(ctx, env)
}

// withDictionary runs fn against a bootstrapped dictionary, then closes
// it and prints the cache metrics if requested.
func (c *cliContext) withDictionary(
	cmd *cobra.Command, fn func(ctx context.Context, env *dd.Env, initialized bool) error,
) (retErr error) {
	ctx := logtags.AddTag(cmd.Context(), "cmd", cmd.Name())
	reg := prometheus.NewRegistry()
	env, initialized, err := c.openDictionary(ctx, reg)
	if err != nil {
		return err
	}
	defer func() {
		retErr = errors.CombineErrors(retErr, env.Close(ctx))
		if retErr == nil && c.showMetrics {
			retErr = printMetrics(cmd.OutOrStdout(), reg)
		}
	}()
	return fn(ctx, env, initialized)
}

func newBootstrapCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "initialize or restart the dictionary",
		Long: `
Initialize the dictionary in an empty store, or restart and upgrade the
dictionary of an existing store.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDictionary(cmd, func(ctx context.Context, env *dd.Env, initialized bool) error {
				verb := "restarted"
				if initialized {
					verb = "initialized"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dictionary %s at version %d (stage %s)\n",
					verb, bootstrap.Version, env.Stage.Get())
				return nil
			})
		},
	}
}

func newDumpCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "print the core registry and shared cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDictionary(cmd, func(ctx context.Context, env *dd.Env, _ bool) error {
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, "core registry:")
				if err := env.Storage.Dump(w); err != nil {
					return err
				}
				fmt.Fprintln(w, "shared cache:")
				return printStats(w, env)
			})
		},
	}
}

func printStats(w io.Writer, env *dd.Env) error {
	tw := tabwriter.NewWriter(w, 2, 1, 2, ' ', 0)
	fmt.Fprintln(tw, "partition\tcapacity\telements\tunused\tnegative\tmisses")
	for _, s := range env.Cache.Stats() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
			s.Partition, s.Capacity, s.Elements, s.Unused, s.Negative, s.Misses)
	}
	return tw.Flush()
}

func newGetCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <kind> [<schema>] <name>",
		Short: "print a dictionary object",
		Long: `
Print the dictionary object of the given kind. Tables, views, events,
functions and procedures are named within a schema. Spatial reference
systems are looked up by id.
`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := ddobj.KindByName(args[0])
			if !ok {
				return errors.Mark(errors.Newf("unknown object kind %q", args[0]), errFlag)
			}
			return c.withDictionary(cmd, func(ctx context.Context, env *dd.Env, _ bool) error {
				dc := env.NewClient(mdl.AllowAll{})
				obj, err := acquireByName(ctx, dc, kind, args[1:])
				// The object is copied out before the client releases it.
				if err == nil && obj != nil {
					obj = obj.Clone()
				}
				err = errors.CombineErrors(err, dc.Close(ctx))
				if err != nil {
					return err
				}
				if obj == nil {
					return errors.Mark(errors.Newf("%s %v not found", kind, args[1:]), errObjectNotFound)
				}
				return printObject(cmd.OutOrStdout(), obj, c.printJSON)
			})
		},
	}
	BoolFlag(cmd.Flags(), &c.printJSON, cliflags.JSON, false)
	return cmd
}

// found drops typed nil objects.
func found[T any, P interface {
	*T
	ddobj.Object
}](obj P, err error) (ddobj.Object, error) {
	if err != nil || obj == nil {
		return nil, err
	}
	return obj, nil
}

func acquireByName(
	ctx context.Context, dc *client.Client, kind ddobj.Kind, names []string,
) (ddobj.Object, error) {
	var schema, name string
	switch kind {
	case ddobj.KindTable, ddobj.KindView, ddobj.KindEvent, ddobj.KindFunction, ddobj.KindProcedure:
		if len(names) != 2 {
			return nil, errors.Mark(errors.Newf("a %s is named by its schema and name", kind), errFlag)
		}
		schema, name = names[0], names[1]
	default:
		if len(names) != 1 {
			return nil, errors.Mark(errors.Newf("a %s is named without a schema", kind), errFlag)
		}
		name = names[0]
	}

	switch kind {
	case ddobj.KindSchema:
		return found(dc.AcquireSchema(ctx, name))
	case ddobj.KindTablespace:
		return found(dc.AcquireTablespace(ctx, name))
	case ddobj.KindCharset:
		return found(dc.AcquireCharset(ctx, name))
	case ddobj.KindCollation:
		return found(dc.AcquireCollation(ctx, name))
	case ddobj.KindTable:
		return found(dc.AcquireTable(ctx, schema, name))
	case ddobj.KindView:
		return found(dc.AcquireView(ctx, schema, name))
	case ddobj.KindEvent:
		return found(dc.AcquireEvent(ctx, schema, name))
	case ddobj.KindFunction:
		return found(dc.AcquireFunction(ctx, schema, name))
	case ddobj.KindProcedure:
		return found(dc.AcquireProcedure(ctx, schema, name))
	case ddobj.KindSpatialReferenceSystem:
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "spatial reference system id %q", name), errFlag)
		}
		return found(dc.AcquireSpatialReferenceSystem(ctx, ddobj.ID(id)))
	default:
		return nil, errors.Mark(errors.Newf("%s objects cannot be looked up by name", kind), errFlag)
	}
}

func printObject(w io.Writer, obj ddobj.Object, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, obj)
		return err
	}
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", obj)
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// printMetrics writes the value of every gathered sample, sorted by
// metric name.
func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool { return families[i].GetName() < families[j].GetName() })
	tw := tabwriter.NewWriter(w, 2, 1, 2, ' ', 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%s ", lp.GetName(), lp.GetValue())
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%g\n", mf.GetName(), labels, v)
		}
	}
	return tw.Flush()
}
