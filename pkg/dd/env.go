// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package dd assembles a data dictionary environment: the record store,
// the storage adapter with its bootstrap stage, and the shared cache that
// all dictionary clients of a process go through.
package dd

import (
	"context"

	"github.com/cockroachdb/ddcache/pkg/dd/cache"
	"github.com/cockroachdb/ddcache/pkg/dd/client"
	"github.com/cockroachdb/ddcache/pkg/dd/ddconfig"
	"github.com/cockroachdb/ddcache/pkg/dd/mdl"
	"github.com/cockroachdb/ddcache/pkg/dd/sdi"
	"github.com/cockroachdb/ddcache/pkg/dd/stage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage/pebblestore"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// Env is the process-wide dictionary state. There is one Env per
// dictionary, shared by all sessions.
type Env struct {
	Config  ddconfig.Config
	Store   *pebblestore.Store
	SDI     *sdi.FileStore
	Stage   *stage.Tracker
	Storage *storage.Adapter
	Cache   *cache.SharedCache
}

type envOptions struct {
	storeFS  vfs.FS
	sdiFS    afero.Fs
	registry prometheus.Registerer
	fake     bool
}

// EnvOption configures NewEnv.
type EnvOption func(*envOptions)

// WithStoreFS makes the record store live on fs instead of the local disk.
func WithStoreFS(fs vfs.FS) EnvOption {
	return func(o *envOptions) { o.storeFS = fs }
}

// WithSDIFS makes serialized definitions go to fs instead of the local
// disk.
func WithSDIFS(fs afero.Fs) EnvOption {
	return func(o *envOptions) { o.sdiFS = fs }
}

// WithMetricsRegistry registers the shared cache metrics with r.
func WithMetricsRegistry(r prometheus.Registerer) EnvOption {
	return func(o *envOptions) { o.registry = r }
}

// WithFakeStorage keeps every dictionary object in memory. The record
// store is opened but never written.
func WithFakeStorage() EnvOption {
	return func(o *envOptions) { o.fake = true }
}

// NewEnv opens the dictionary described by cfg. The returned Env is at
// stage NotStarted; bootstrap brings it up.
func NewEnv(ctx context.Context, cfg ddconfig.Config, opts ...EnvOption) (_ *Env, retErr error) {
	o := envOptions{storeFS: vfs.Default, sdiFS: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Env{Config: cfg, Stage: &stage.Tracker{}}
	var err error
	if cfg.StoreDir == "" {
		e.Store, err = pebblestore.OpenInMem(ctx)
	} else {
		e.Store, err = pebblestore.Open(ctx, cfg.StoreDir, o.storeFS)
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening dictionary store")
	}
	defer func() {
		if retErr != nil {
			_ = e.Store.Close()
		}
	}()

	var adapterOpts []storage.Option
	if o.fake {
		adapterOpts = append(adapterOpts, storage.WithFakeStorage())
	}
	if cfg.SDIDir != "" {
		e.SDI = sdi.NewFileStore(o.sdiFS, cfg.SDIDir)
		adapterOpts = append(adapterOpts, storage.WithSDI(e.SDI))
	}
	e.Storage = storage.NewAdapter(e.Store, e.Stage, adapterOpts...)

	metrics := cache.NewMetrics()
	if o.registry != nil {
		if err := metrics.Register(o.registry); err != nil {
			return nil, errors.Wrap(err, "registering cache metrics")
		}
	}
	if e.Cache, err = cache.NewSharedCache(e.Storage, cfg.Capacities, metrics); err != nil {
		return nil, err
	}
	log.Infof(ctx, "opened dictionary store %q", cfg.StoreDir)
	return e, nil
}

// NewClient returns a dictionary client for a session whose metadata
// locks are tracked by locks.
func (e *Env) NewClient(locks mdl.Checker) *client.Client {
	return client.New(e.Cache, e.Storage, locks)
}

// Close shuts the dictionary down. All clients must have been closed.
func (e *Env) Close(ctx context.Context) error {
	err := e.Cache.CheckInvariants()
	for _, s := range e.Cache.Stats() {
		if n := s.Elements - s.Unused; n > 0 {
			log.Warningf(ctx, "partition %s still has %d elements in use", s.Partition, n)
		}
	}
	e.Cache.Reset()
	return errors.CombineErrors(err, e.Store.Close())
}
