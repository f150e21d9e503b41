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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplaySubject_unboundedReplaysEveryValueToLateSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewReplaySubject[int](0)
	subject.Next(1)
	subject.Next(2)
	subject.Next(3)

	var late []int
	subject.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() {}))

	is.Equal([]int{1, 2, 3}, late)
}

func TestReplaySubject_sizeBoundedKeepsOnlyMostRecentValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewReplaySubject[int](2)
	subject.Next(1)
	subject.Next(2)
	subject.Next(3)

	var late []int
	subject.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() {}))

	is.Equal([]int{2, 3}, late)
}

func TestReplaySubject_windowBoundedEvictsStaleValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewReplaySubjectWithWindow[int](0, 10*time.Millisecond, scheduler)

	subject.Next(1)
	scheduler.AdvanceBy(5 * time.Millisecond)
	subject.Next(2)
	scheduler.AdvanceBy(6 * time.Millisecond) // value 1 (age 11ms) now outside the 10ms window

	var late []int
	subject.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() {}))

	is.Equal([]int{2}, late)
}

func TestReplaySubject_broadcastsLiveValuesToAllActiveObservers(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewReplaySubject[int](0)

	var a, b []int
	subject.Subscribe(NewObserver(func(v int) { a = append(a, v) }, func(error) {}, func() {}))
	subject.Subscribe(NewObserver(func(v int) { b = append(b, v) }, func(error) {}, func() {}))

	subject.Next(1)
	subject.Next(2)

	is.Equal([]int{1, 2}, a)
	is.Equal([]int{1, 2}, b)
}

func TestReplaySubject_lateSubscriberAfterCompleteReplaysThenCompletes(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewReplaySubject[int](0)
	subject.Next(1)
	subject.Complete()

	var late []int
	completed := false
	subject.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() { completed = true }))

	is.Equal([]int{1}, late)
	is.True(completed)
}

func TestReplaySubject_lateSubscriberAfterErrorReplaysThenErrors(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	subject := NewReplaySubject[int](0)
	subject.Next(1)
	subject.Error(assert.AnError)

	var late []int
	var receivedErr error
	subject.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(err error) { receivedErr = err }, func() {}))

	is.Equal([]int{1}, late)
	is.ErrorIs(receivedErr, assert.AnError)
}
