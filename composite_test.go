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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposable_disposeIsIdempotent(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	calls := 0
	d := NewDisposable(func() { calls++ })

	is.False(d.IsDisposed())
	d.Dispose()
	d.Dispose()

	is.True(d.IsDisposed())
	is.Equal(1, calls)
}

func TestCompositeResource_disposeTearsDownEveryMember(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	c := NewCompositeResource()
	var disposedA, disposedB bool
	c.Add(NewDisposable(func() { disposedA = true }))
	c.Add(NewDisposable(func() { disposedB = true }))

	c.Dispose()

	is.True(disposedA)
	is.True(disposedB)
	is.True(c.IsDisposed())
}

func TestCompositeResource_addAfterDisposeDisposesImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	c := NewCompositeResource()
	c.Dispose()

	disposed := false
	ok := c.Add(NewDisposable(func() { disposed = true }))

	is.False(ok)
	is.True(disposed)
}

func TestCompositeResource_clearTearsDownWithoutDisposingComposite(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	c := NewCompositeResource()
	disposed := false
	c.Add(NewDisposable(func() { disposed = true }))

	c.Clear()
	is.True(disposed)
	is.False(c.IsDisposed())

	stillWorks := false
	ok := c.Add(NewDisposable(func() { stillWorks = true }))
	is.True(ok)

	c.Dispose()
	is.True(stillWorks)
}
