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

func TestDebounce_onlyEmitsAfterSourceGoesQuiet(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var received []int
	Pipe1(subject.AsObservable(), Debounce[int](10*time.Millisecond, scheduler)).Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))

	subject.Next(1)
	scheduler.AdvanceBy(5 * time.Millisecond)
	subject.Next(2) // resets the debounce window
	scheduler.AdvanceBy(5 * time.Millisecond)
	is.Empty(received)

	scheduler.AdvanceBy(5 * time.Millisecond)
	is.Equal([]int{2}, received)
}

func TestDebounce_flushesPendingValueOnComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var received []int
	completed := false
	Pipe1(subject.AsObservable(), Debounce[int](time.Hour, scheduler)).Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() { completed = true },
	))

	subject.Next(1)
	subject.Complete()

	is.Equal([]int{1}, received)
	is.True(completed)
}

func TestThrottleFirst_suppressesValuesWithinWindow(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var received []int
	Pipe1(subject.AsObservable(), ThrottleFirst[int](10*time.Millisecond, scheduler)).Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))

	subject.Next(1)
	subject.Next(2) // inside the same window, suppressed
	is.Equal([]int{1}, received)

	scheduler.AdvanceBy(10 * time.Millisecond)
	subject.Next(3)
	is.Equal([]int{1, 3}, received)
}

func TestTimeout_errorsWhenSourceGoesSilentTooLong(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var receivedErr error
	Pipe1(subject.AsObservable(), Timeout[int](10*time.Millisecond, scheduler)).Subscribe(NewObserver(
		func(int) {},
		func(err error) { receivedErr = err },
		func() {},
	))

	scheduler.AdvanceBy(10 * time.Millisecond)
	is.ErrorIs(receivedErr, ErrTimeout)
}

func TestTimeout_resetsOnEveryValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var receivedErr error
	var received []int
	Pipe1(subject.AsObservable(), Timeout[int](10*time.Millisecond, scheduler)).Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(err error) { receivedErr = err },
		func() {},
	))

	scheduler.AdvanceBy(5 * time.Millisecond)
	subject.Next(1)
	scheduler.AdvanceBy(5 * time.Millisecond)

	is.Equal([]int{1}, received)
	is.NoError(receivedErr)
}

func TestDelay_shiftsEveryNotificationLater(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	subject := NewPublishSubject[int]()

	var received []int
	completed := false
	Pipe1(subject.AsObservable(), Delay[int](10*time.Millisecond, scheduler)).Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() { completed = true },
	))

	subject.Next(1)
	subject.Complete()
	is.Empty(received)
	is.False(completed)

	scheduler.AdvanceBy(10 * time.Millisecond)
	is.Equal([]int{1}, received)
	is.True(completed)
}
