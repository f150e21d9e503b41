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

func TestBehaviorSubject_newSubscriberReceivesSeedImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(42)

	var received []int
	subject.Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))

	is.Equal([]int{42}, received)
}

func TestBehaviorSubject_lateSubscriberReceivesLatestValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)
	subject.Next(1)
	subject.Next(2)

	var received []int
	subject.Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))

	is.Equal([]int{2}, received)
}

func TestBehaviorSubject_broadcastsToEveryActiveObserver(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)

	var a, b []int
	subject.Subscribe(NewObserver(func(v int) { a = append(a, v) }, func(error) {}, func() {}))
	subject.Subscribe(NewObserver(func(v int) { b = append(b, v) }, func(error) {}, func() {}))

	subject.Next(5)

	is.Equal([]int{0, 5}, a)
	is.Equal([]int{0, 5}, b)
}

func TestBehaviorSubject_valueReflectsMostRecentPush(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)
	impl := subject.(interface{ Value() int })

	is.Equal(0, impl.Value())
	subject.Next(9)
	is.Equal(9, impl.Value())
}

func TestBehaviorSubject_countAndHasObserver(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewBehaviorSubject(0)
	is.False(subject.HasObserver())
	is.Equal(0, subject.CountObservers())

	sub := subject.Subscribe(NoopObserver[int]())
	is.True(subject.HasObserver())
	is.Equal(1, subject.CountObservers())

	sub.Unsubscribe()
	is.False(subject.HasObserver())
}
