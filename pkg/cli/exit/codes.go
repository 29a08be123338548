// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package exit defines the process exit codes of ddcache.
package exit

// Code is a process exit code.
type Code struct {
	code int
}

// Int returns the numeric value of c.
func (c Code) Int() int { return c.code }

// Success (0) represents a normal process termination.
func Success() Code { return Code{0} }

// UnspecifiedError (1) indicates the process has terminated with an
// error condition. The specific cause of the error can be found in
// the logging output.
func UnspecifiedError() Code { return Code{1} }

// CommandLineFlagError (4) indicates there was an error in the
// command-line parameters.
func CommandLineFlagError() Code { return Code{4} }

// FatalError (7) indicates that the dictionary could not be brought up.
func FatalError() Code { return Code{7} }

// Command-specific exit codes are allocated down from 125.

// ObjectNotFound indicates that 'get' found no object.
func ObjectNotFound() Code { return Code{125} }
