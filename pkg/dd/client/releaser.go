// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package client

import (
	"github.com/cockroachdb/ddcache/pkg/dd/cache"
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/cockroachdb/errors"
)

// AutoReleaser is a scope holding the shared cache elements acquired while
// it is the innermost scope of its client. Releasing it gives all of them
// back. Scopes nest and must be released in reverse order of creation:
//
//	r := c.NewAutoReleaser()
//	defer r.Release()
type AutoReleaser struct {
	client   *Client
	prev     *AutoReleaser
	reg      *cache.Registry
	released bool
}

// NewAutoReleaser opens a new innermost scope.
func (c *Client) NewAutoReleaser() *AutoReleaser {
	r := &AutoReleaser{client: c, prev: c.current, reg: cache.NewRegistry()}
	c.current = r
	return r
}

// Release gives back every element of the scope and makes its predecessor
// the innermost scope again. Releasing a scope that is not the innermost
// one is a programming error and panics.
func (r *AutoReleaser) Release() {
	c := r.client
	if r.released {
		panic(errors.AssertionFailedf("auto releaser released twice"))
	}
	if c.current != r {
		panic(errors.AssertionFailedf("auto releaser released out of order"))
	}
	r.releaseElements()
	r.released = true
	c.current = r.prev
}

func (r *AutoReleaser) releaseElements() {
	c := r.client
	for _, p := range ddobj.AllPartitions {
		_ = r.reg.Iterate(p, func(e *cache.Element) error {
			c.committed.Remove(e)
			c.cache.Release(e)
			return nil
		})
	}
	r.reg.ClearAll()
}

// TransferRelease moves the element of obj from this scope to the enclosing
// one, so that obj stays valid after this scope is released.
func (r *AutoReleaser) TransferRelease(obj ddobj.Object) error {
	if r.prev == nil {
		return errors.AssertionFailedf("cannot transfer %s out of the outermost scope", obj)
	}
	e := r.reg.Get(obj.Kind().Partition(), ddobj.MakeIDKey(obj.GetID()))
	if e == nil || e.Object() != obj {
		return errors.AssertionFailedf("%s is not held by this scope", obj)
	}
	r.reg.Remove(e)
	return r.prev.reg.Put(e)
}

// add makes the scope responsible for releasing e.
func (r *AutoReleaser) add(e *cache.Element) error {
	return r.reg.Put(e)
}

// holding returns the scope in the chain starting at r that holds e.
func (r *AutoReleaser) holding(e *cache.Element) *AutoReleaser {
	for ; r != nil; r = r.prev {
		if r.reg.Contains(e) {
			return r
		}
	}
	return nil
}
