// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package bootstrap

import "github.com/cockroachdb/ddcache/pkg/dd/ddobj"

// A character set has the id of its primary collation.
const (
	binaryCollationID     = 63
	latin1CollationID     = 8
	asciiCollationID      = 11
	utf8mb3CollationID    = 33
	utf8mb3BinCollationID = 83
	utf8mb4CollationID    = 255
	utf8mb4BinCollationID = 46
)

// Charsets returns the compiled-in character sets.
func Charsets() []*ddobj.Charset {
	return []*ddobj.Charset{
		{ID: binaryCollationID, Name: "binary", DefaultCollationID: binaryCollationID,
			MBMaxLen: 1, Comment: "Binary pseudo charset"},
		{ID: latin1CollationID, Name: "latin1", DefaultCollationID: latin1CollationID,
			MBMaxLen: 1, Comment: "cp1252 West European"},
		{ID: asciiCollationID, Name: "ascii", DefaultCollationID: asciiCollationID,
			MBMaxLen: 1, Comment: "US ASCII"},
		{ID: utf8mb3CollationID, Name: "utf8mb3", DefaultCollationID: utf8mb3CollationID,
			MBMaxLen: 3, Comment: "UTF-8 Unicode"},
		{ID: utf8mb4CollationID, Name: "utf8mb4", DefaultCollationID: utf8mb4CollationID,
			MBMaxLen: 4, Comment: "UTF-8 Unicode"},
	}
}

// Collations returns the compiled-in collations.
func Collations() []*ddobj.Collation {
	return []*ddobj.Collation{
		{ID: binaryCollationID, Name: "binary", CharsetID: binaryCollationID,
			IsDefault: true, PadAttribute: "NO PAD", SortLength: 1},
		{ID: latin1CollationID, Name: "latin1_swedish_ci", CharsetID: latin1CollationID,
			IsDefault: true, PadAttribute: "PAD SPACE", SortLength: 1},
		{ID: 47, Name: "latin1_bin", CharsetID: latin1CollationID,
			PadAttribute: "PAD SPACE", SortLength: 1},
		{ID: asciiCollationID, Name: "ascii_general_ci", CharsetID: asciiCollationID,
			IsDefault: true, PadAttribute: "PAD SPACE", SortLength: 1},
		{ID: utf8mb3CollationID, Name: "utf8mb3_general_ci", CharsetID: utf8mb3CollationID,
			IsDefault: true, PadAttribute: "PAD SPACE", SortLength: 1},
		{ID: utf8mb3BinCollationID, Name: "utf8mb3_bin", CharsetID: utf8mb3CollationID,
			PadAttribute: "PAD SPACE", SortLength: 1},
		{ID: utf8mb4CollationID, Name: "utf8mb4_0900_ai_ci", CharsetID: utf8mb4CollationID,
			IsDefault: true, PadAttribute: "NO PAD", SortLength: 0},
		{ID: utf8mb4BinCollationID, Name: "utf8mb4_bin", CharsetID: utf8mb4CollationID,
			PadAttribute: "PAD SPACE", SortLength: 1},
	}
}
