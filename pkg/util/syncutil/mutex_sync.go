// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

//go:build !deadlock

package syncutil

import "sync"

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = false

// A Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}

// AssertHeld panics if the mutex is not locked.
//
// Note that we do not require the lock to be held by any particular
// goroutine, just that some goroutine holds the lock.
func (m *Mutex) AssertHeld() {
	if m.TryLock() {
		m.Unlock()
		panic("mutex is not locked")
	}
}

// An RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	sync.RWMutex
}

// AssertHeld panics if the mutex is not locked for writing.
func (rw *RWMutex) AssertHeld() {
	if rw.TryLock() {
		rw.Unlock()
		panic("mutex is not write locked")
	}
}

// AssertRHeld panics if the mutex is not locked for reading or writing.
func (rw *RWMutex) AssertRHeld() {
	if rw.TryLock() {
		rw.Unlock()
		panic("mutex is not read locked")
	}
}
