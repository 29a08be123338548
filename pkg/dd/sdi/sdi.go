// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package sdi writes serialized dictionary information: a self-describing
// copy of the definition of each table, tablespace and schema that is kept
// next to the data and can rebuild the dictionary if it is lost.
package sdi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/ddcache/pkg/util/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Store maintains the serialized definitions of dictionary objects. Objects
// of kinds without a serialized definition are ignored.
type Store interface {
	Store(ctx context.Context, obj ddobj.Object) error
	Drop(ctx context.Context, obj ddobj.Object) error
	// DropAfterUpdate removes the definition of prev if updating it to next
	// moved the definition elsewhere, as a rename does.
	DropAfterUpdate(ctx context.Context, prev, next ddobj.Object) error
}

// Version is written into every artifact.
const Version = 1

const fileSuffix = ".sdi"

// Artifact describes one serialized definition found by Scan.
type Artifact struct {
	Path string
	Kind ddobj.Kind
	ID   ddobj.ID
	Name string
}

type envelope struct {
	Version int             `json:"sdi_version"`
	Kind    string          `json:"dd_object_type"`
	Object  json.RawMessage `json:"dd_object"`
}

// FileStore keeps one JSON file per object under a directory of fs.
type FileStore struct {
	fs  afero.Fs
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

// HasArtifact returns true for the kinds that have a serialized definition.
func HasArtifact(k ddobj.Kind) bool {
	switch k {
	case ddobj.KindTable, ddobj.KindTablespace, ddobj.KindSchema:
		return true
	}
	return false
}

// path returns the file holding the definition of obj. Table definitions
// are grouped by schema.
func (s *FileStore) path(obj ddobj.Object) string {
	file := fmt.Sprintf("%s_%d%s", sanitize(obj.GetName()), obj.GetID(), fileSuffix)
	switch o := obj.(type) {
	case *ddobj.Table:
		return filepath.Join(s.dir, fmt.Sprintf("%d", o.SchemaID), file)
	case *ddobj.Tablespace:
		return filepath.Join(s.dir, "tablespaces", file)
	default:
		return filepath.Join(s.dir, "schemas", file)
	}
}

// sanitize makes name usable as a file name component.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', 0:
			return '_'
		}
		return r
	}, name)
}

// Store implements Store. The file is written under a temporary name and
// renamed into place.
func (s *FileStore) Store(ctx context.Context, obj ddobj.Object) error {
	if !HasArtifact(obj.Kind()) {
		return nil
	}
	if obj.GetID() == ddobj.InvalidID {
		return errors.AssertionFailedf("cannot serialize %s without an id", obj)
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrapf(err, "serializing %s", obj)
	}
	data, err := json.MarshalIndent(envelope{
		Version: Version,
		Kind:    obj.Kind().String(),
		Object:  payload,
	}, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "serializing %s", obj)
	}

	path := s.path(obj)
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	f, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary sdi file")
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = s.fs.Rename(f.Name(), path)
	}
	if err != nil {
		_ = s.fs.Remove(f.Name())
		return errors.Wrapf(err, "writing %s", path)
	}
	log.VEventf(ctx, 2, "wrote sdi for %s to %s", obj, path)
	return nil
}

// Drop implements Store. A missing file is not an error.
func (s *FileStore) Drop(ctx context.Context, obj ddobj.Object) error {
	if !HasArtifact(obj.Kind()) {
		return nil
	}
	path := s.path(obj)
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	log.VEventf(ctx, 2, "removed sdi of %s", obj)
	return nil
}

// DropAfterUpdate implements Store.
func (s *FileStore) DropAfterUpdate(ctx context.Context, prev, next ddobj.Object) error {
	if !HasArtifact(prev.Kind()) || s.path(prev) == s.path(next) {
		return nil
	}
	return s.Drop(ctx, prev)
}

// Load restores the object serialized in the file at path.
func (s *FileStore) Load(path string) (ddobj.Object, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if env.Version != Version {
		return nil, errors.Newf("%s has unsupported sdi version %d", path, env.Version)
	}
	k, ok := ddobj.KindByName(env.Kind)
	if !ok || !HasArtifact(k) {
		return nil, errors.Newf("%s holds unexpected object type %q", path, env.Kind)
	}
	obj, err := ddobj.New(k)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Object, obj); err != nil {
		return nil, errors.Wrapf(err, "decoding %s in %s", k, path)
	}
	return obj, nil
}

// Scan lists the artifacts under the root directory, sorted by path.
func (s *FileStore) Scan() ([]Artifact, error) {
	if ok, err := afero.DirExists(s.fs, s.dir); err != nil || !ok {
		return nil, err
	}
	var paths []string
	err := afero.Walk(s.fs, s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, fileSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", s.dir)
	}
	sort.Strings(paths)
	artifacts := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		obj, err := s.Load(p)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Path: p, Kind: obj.Kind(), ID: obj.GetID(), Name: obj.GetName(),
		})
	}
	return artifacts, nil
}
