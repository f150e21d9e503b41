// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xsync provides the Mutex abstraction behind Subscriber's
// concurrency modes (see subscriber.go). A real mutex and a no-op mutex
// share the same call-site shape, so switching concurrency modes never
// changes the hot-path code, only which Mutex implementation backs it.
package xsync

import "sync"

// Mutex is the minimal locking contract Subscriber needs: Lock/Unlock for
// the blocking path, TryLock for the drop-on-contention backpressure path.
type Mutex interface {
	Lock()
	Unlock()
	TryLock() bool
}

// NewMutexWithLock returns a Mutex backed by a real sync.Mutex.
func NewMutexWithLock() Mutex {
	return &realMutex{}
}

type realMutex struct {
	mu sync.Mutex
}

func (m *realMutex) Lock()         { m.mu.Lock() }
func (m *realMutex) Unlock()       { m.mu.Unlock() }
func (m *realMutex) TryLock() bool { return m.mu.TryLock() }

// NewMutexWithoutLock returns a Mutex whose Lock/Unlock/TryLock are no-ops.
// Used by ConcurrencyModeUnsafe, which keeps the same call shape as the
// safe variant (so the hot path isn't forked) while paying no
// synchronization cost — and offering no safety either.
func NewMutexWithoutLock() Mutex {
	return noopMutex{}
}

type noopMutex struct{}

func (noopMutex) Lock()         {}
func (noopMutex) Unlock()       {}
func (noopMutex) TryLock() bool { return true }
