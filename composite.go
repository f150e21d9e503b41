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

package ro

import "sync"

// Disposable is an opaque handle with an idempotent Dispose, observable via
// IsDisposed (§3's Disposable).
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// NewDisposable wraps a plain teardown func as a Disposable.
func NewDisposable(teardown func()) Disposable {
	return &disposableImpl{teardown: teardown}
}

type disposableImpl struct {
	mu       sync.Mutex
	disposed bool
	teardown func()
}

func (d *disposableImpl) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	teardown := d.teardown
	d.mu.Unlock()

	if teardown != nil {
		teardown()
	}
}

func (d *disposableImpl) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

// CompositeResource (CR, §4.2) is a mutable, thread-safe set of Disposables
// owned by an operator instance.
type CompositeResource struct {
	mu       sync.Mutex
	disposed bool
	members  map[*disposableHandle]struct{}
	seq      uint64
}

type disposableHandle struct {
	id int
	d  Disposable
}

// NewCompositeResource returns an empty, non-disposed CompositeResource.
func NewCompositeResource() *CompositeResource {
	return &CompositeResource{members: map[*disposableHandle]struct{}{}}
}

// Add inserts d. If the composite is already disposed, d is disposed
// immediately instead and Add returns false.
func (c *CompositeResource) Add(d Disposable) bool {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return false
	}

	h := &disposableHandle{d: d}
	c.members[h] = struct{}{}
	c.mu.Unlock()

	return true
}

// Clear atomically swaps out the current members (disposing them) without
// disposing the composite itself; further Add calls succeed.
func (c *CompositeResource) Clear() {
	c.mu.Lock()
	members := c.members
	c.members = map[*disposableHandle]struct{}{}
	c.mu.Unlock()

	for h := range members {
		h.d.Dispose()
	}
}

// Dispose marks the composite disposed and disposes every current member.
// Idempotent.
func (c *CompositeResource) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	members := c.members
	c.members = nil
	c.mu.Unlock()

	for h := range members {
		h.d.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (c *CompositeResource) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}
