// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// ddcache bootstraps and inspects a data dictionary.
package main

import "github.com/cockroachdb/ddcache/pkg/cli"

func main() {
	cli.Main()
}
