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

func TestPublish_sharesOneUpstreamAmongAllSubscribersOnceConnected(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	conn := Publish[int](source.AsObservable())

	var a, b []int
	conn.Subscribe(NewObserver(func(v int) { a = append(a, v) }, func(error) {}, func() {}))
	conn.Subscribe(NewObserver(func(v int) { b = append(b, v) }, func(error) {}, func() {}))

	// nothing flows before Connect
	source.Next(0)
	is.Empty(a)
	is.Empty(b)

	conn.Connect()
	source.Next(1)
	source.Next(2)

	is.Equal([]int{1, 2}, a)
	is.Equal([]int{1, 2}, b)
}

func TestPublish_connectIsIdempotentUntilUnsubscribed(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	conn := Publish[int](source.AsObservable())

	first := conn.Connect()
	second := conn.Connect()

	is.Same(first, second)
}

func TestRefCount_connectsOnFirstSubscriberAndDisconnectsOnLast(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	shared := Share[int](source.AsObservable())

	var a, b []int
	subA := shared.Subscribe(NewObserver(func(v int) { a = append(a, v) }, func(error) {}, func() {}))

	source.Next(1)
	is.Equal([]int{1}, a)

	subB := shared.Subscribe(NewObserver(func(v int) { b = append(b, v) }, func(error) {}, func() {}))
	source.Next(2)
	is.Equal([]int{1, 2}, a)
	is.Equal([]int{2}, b)

	subA.Unsubscribe()
	subB.Unsubscribe()

	is.False(source.HasObserver())
}

func TestPublishBehavior_replaysLatestToNewSubscribersAfterConnect(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	conn := PublishBehavior[int](source.AsObservable(), -1)
	conn.Connect()

	source.Next(7)

	var late []int
	conn.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() {}))

	is.Equal([]int{7}, late)
}
