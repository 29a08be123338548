// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package bootstrap brings a dictionary environment up.
//
// The dictionary describes its own tables, so it cannot read them before
// it knows them. Bootstrap first registers scaffolding for the dictionary
// schema, tablespace and tables in the core registry of the storage
// adapter. Once the tables are readable it replaces the scaffolding with
// what is actually stored. Initialize does this for an empty store and
// Restart for an existing one.
package bootstrap

import (
	"context"

	"github.com/cockroachdb/ddcache/pkg/dd"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/dd/mdl"
	"github.com/cockroachdb/ddcache/pkg/dd/stage"
	"github.com/cockroachdb/ddcache/pkg/dd/storage"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
)

// ErrCoreMetadataNotFound is returned when a dictionary table is missing
// from storage. The dictionary cannot start without it.
var ErrCoreMetadataNotFound = storage.ErrCoreMetadataNotFound

// Initialize creates the dictionary in the empty store of env.
func Initialize(ctx context.Context, env *dd.Env) error {
	ctx = logtags.AddTag(ctx, "dd-bootstrap", "initialize")
	if err := env.Stage.Advance(stage.Started); err != nil {
		return err
	}
	created, err := env.Store.TablesCreated(ctx)
	if err != nil {
		return err
	}
	if created {
		return errors.New("dictionary is initialized already")
	}

	core, err := scaffold(ctx, env.Storage)
	if err != nil {
		return err
	}
	if err := advance(ctx, env, stage.CreatedTablespaces, stage.FetchedProperties, stage.CreatedTables); err != nil {
		return err
	}

	// With fake storage the scaffolding is all there is.
	persistent := !env.Storage.CoreMode()
	if persistent {
		if err := createTables(ctx, env.Storage, core); err != nil {
			return err
		}
		if err := env.Store.MarkTablesCreated(ctx); err != nil {
			return err
		}
		if err := syncCore(ctx, env.Storage, core); err != nil {
			return err
		}
	}
	if err := advance(ctx, env, stage.Synced); err != nil {
		return err
	}

	populate(ctx, env)
	if err := advance(ctx, env, stage.Populated); err != nil {
		return err
	}
	if persistent {
		if err := env.Store.SetVersion(Version); err != nil {
			return errors.Wrap(err, "storing dictionary version")
		}
	}
	if err := advance(ctx, env, stage.StoredDDMetadata, stage.VersionUpdated, stage.Finished); err != nil {
		return err
	}
	log.Infof(ctx, "dictionary initialized at version %d", Version)
	return nil
}

// Restart brings up the dictionary of env from an existing store.
func Restart(ctx context.Context, env *dd.Env) error {
	ctx = logtags.AddTag(ctx, "dd-bootstrap", "restart")
	if err := env.Stage.Advance(stage.Started); err != nil {
		return err
	}
	created, err := env.Store.TablesCreated(ctx)
	if err != nil {
		return err
	}
	if !created {
		return errors.New("dictionary is not initialized")
	}
	core, err := scaffold(ctx, env.Storage)
	if err != nil {
		return err
	}
	if err := advance(ctx, env, stage.CreatedTablespaces, stage.FetchedProperties, stage.CreatedTables); err != nil {
		return err
	}
	if err := syncCore(ctx, env.Storage, core); err != nil {
		return err
	}
	if err := advance(ctx, env, stage.Synced); err != nil {
		return err
	}

	v, err := env.Store.Version()
	if err != nil {
		return err
	}
	switch {
	case v > Version:
		return errors.Newf("dictionary version %d is newer than supported version %d", v, Version)
	case v < Version:
		log.Infof(ctx, "upgrading dictionary from version %d to %d", v, Version)
		if err := env.Store.SetVersion(Version); err != nil {
			return errors.Wrap(err, "storing dictionary version")
		}
		if err := advance(ctx, env, stage.UpgradedTables, stage.VersionUpdated); err != nil {
			return err
		}
	}
	checkPopulated(ctx, env)
	if err := advance(ctx, env, stage.Finished); err != nil {
		return err
	}
	log.Infof(ctx, "dictionary restarted at version %d", Version)
	return nil
}

func advance(ctx context.Context, env *dd.Env, stages ...stage.Stage) error {
	for _, s := range stages {
		if err := env.Stage.Advance(s); err != nil {
			return err
		}
		log.VEventf(ctx, 1, "bootstrap stage: %s", s)
	}
	return nil
}

// scaffold registers the dictionary objects in the core registry under
// synthetic ids.
func scaffold(ctx context.Context, a *storage.Adapter) (coreObjects, error) {
	if !a.CoreMode() {
		return coreObjects{}, errors.AssertionFailedf("scaffolding at stage %s", a.Stage().Get())
	}
	core := newCoreObjects()
	if err := a.Store(ctx, nil, core.schema); err != nil {
		return coreObjects{}, err
	}
	if err := a.Store(ctx, nil, core.tablespace); err != nil {
		return coreObjects{}, err
	}
	core.place()
	for _, t := range core.tables {
		if err := a.Store(ctx, nil, t); err != nil {
			return coreObjects{}, err
		}
	}
	return core, nil
}

// createTables persists the dictionary objects. Storage assigns them their
// real ids.
func createTables(ctx context.Context, a *storage.Adapter, scaffolding coreObjects) error {
	core := scaffolding.clone()
	for _, obj := range core.all() {
		obj.SetID(ddobj.InvalidID)
	}
	txn, err := a.OpenWriteTxn(ctx)
	if err != nil {
		return err
	}
	defer txn.Rollback()
	if err := a.Store(ctx, txn, core.schema); err != nil {
		return err
	}
	if err := a.Store(ctx, txn, core.tablespace); err != nil {
		return err
	}
	core.place()
	for _, t := range core.tables {
		if err := a.Store(ctx, txn, t); err != nil {
			return err
		}
	}
	if err := txn.Commit(ctx); err != nil {
		return errors.Wrap(err, "creating dictionary tables")
	}
	log.Infof(ctx, "created %d dictionary tables", len(core.tables))
	return nil
}

// syncCore replaces the scaffolding in the core registry with the stored
// objects. A missing object is fatal.
func syncCore(ctx context.Context, a *storage.Adapter, core coreObjects) error {
	err := func() error {
		if err := a.CoreSync(ctx, ddobj.MakeGlobalNameKey(SchemaName), core.schema); err != nil {
			return err
		}
		if err := a.CoreSync(ctx, ddobj.MakeGlobalNameKey(TablespaceName), core.tablespace); err != nil {
			return err
		}
		schemaID := a.CoreGetID(ddobj.PartitionSchema, ddobj.MakeGlobalNameKey(SchemaName))
		for _, t := range core.tables {
			if err := a.CoreSync(ctx, ddobj.MakeItemNameKey(schemaID, t.Name), t); err != nil {
				return err
			}
		}
		return nil
	}()
	if err != nil {
		log.Errorf(ctx, "cannot read dictionary metadata: %v", err)
	}
	return err
}

// populate stores the compiled-in character sets and collations. Failures
// leave the dictionary usable and are only logged.
func populate(ctx context.Context, env *dd.Env) {
	c := env.NewClient(mdl.AllowAll{})
	defer func() {
		if err := c.Close(ctx); err != nil {
			log.Warningf(ctx, "%v", err)
		}
	}()
	var objs []ddobj.Object
	for _, cs := range Charsets() {
		objs = append(objs, cs)
	}
	for _, co := range Collations() {
		objs = append(objs, co)
	}
	stored := 0
	for _, obj := range objs {
		if err := c.Store(ctx, obj); err != nil {
			log.Warningf(ctx, "cannot store %s: %v", obj, err)
			continue
		}
		stored++
	}
	if err := c.Commit(ctx); err != nil {
		log.Warningf(ctx, "cannot store character sets and collations: %v", err)
		return
	}
	log.Infof(ctx, "stored %d character sets and collations", stored)
}

// checkPopulated warns about compiled-in character sets missing from the
// dictionary.
func checkPopulated(ctx context.Context, env *dd.Env) {
	c := env.NewClient(mdl.AllowAll{})
	defer func() {
		if err := c.Close(ctx); err != nil {
			log.Warningf(ctx, "%v", err)
		}
	}()
	for _, cs := range Charsets() {
		got, err := c.AcquireCharset(ctx, cs.Name)
		switch {
		case err != nil:
			log.Warningf(ctx, "cannot read character set %s: %v", cs.Name, err)
		case got == nil:
			log.Warningf(ctx, "character set %s is missing from the dictionary", cs.Name)
		}
	}
}
