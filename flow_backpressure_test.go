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

func TestOnBackpressureBuffer_drainsBufferedValuesAgainstDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	observer := &recordingFlowObserver[int]{}
	OnBackpressureBuffer[int](source.AsObservable(), 0).Subscribe(observer)

	source.Next(1)
	source.Next(2)
	is.Empty(observer.next)

	observer.subscription.Request(1)
	is.Equal([]int{1}, observer.next)

	observer.subscription.Request(1)
	is.Equal([]int{1, 2}, observer.next)

	source.Complete()
	is.True(observer.completed)
}

func TestOnBackpressureBuffer_overflowingBoundedCapacityErrors(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	observer := &recordingFlowObserver[int]{}
	OnBackpressureBuffer[int](source.AsObservable(), 1).Subscribe(observer)

	source.Next(1)
	source.Next(2)

	is.ErrorIs(observer.err, ErrMissingBackpressure)
}

func TestOnBackpressureDrop_discardsValuesWithoutOutstandingDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	observer := &recordingFlowObserver[int]{}
	OnBackpressureDrop[int](source.AsObservable()).Subscribe(observer)

	source.Next(1)
	is.Empty(observer.next)

	observer.subscription.Request(1)
	source.Next(2)
	is.Equal([]int{2}, observer.next)
}

func TestOnBackpressureLatest_keepsOnlyMostRecentUndeliveredValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	observer := &recordingFlowObserver[int]{}
	OnBackpressureLatest[int](source.AsObservable()).Subscribe(observer)

	source.Next(1)
	source.Next(2)
	source.Next(3)
	is.Empty(observer.next)

	observer.subscription.Request(1)
	is.Equal([]int{3}, observer.next)
}

func TestOnBackpressureError_errorsAsSoonAsDemandRunsDry(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	observer := &recordingFlowObserver[int]{}
	OnBackpressureError[int](source.AsObservable()).Subscribe(observer)

	source.Next(1)
	is.ErrorIs(observer.err, ErrMissingBackpressure)
}

// TestFlowObserveOn_refillsUpstreamDemandPastBufferSize pins the fix for a
// prior bug where upstream demand was requested once (bufferSize) at
// subscribe time and never topped off: observing a source longer than
// bufferSize delivered exactly bufferSize values and then stalled forever,
// since neither the drain loop nor the downstream Request callback ever
// forwarded further demand upstream.
func TestFlowObserveOn_refillsUpstreamDemandPastBufferSize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowObserveOn[int](NewImmediateScheduler(), false, 2)(FlowJust(1, 2, 3, 4, 5)).Subscribe(observer)

	is.NotNil(observer.subscription)
	observer.subscription.Request(5)

	is.Equal([]int{1, 2, 3, 4, 5}, observer.next)
	is.True(observer.completed)
}

func TestFlowObserveOn_deliversOnlyUpToRequestedDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowObserveOn[int](NewImmediateScheduler(), false, 2)(FlowJust(1, 2, 3, 4, 5)).Subscribe(observer)

	observer.subscription.Request(1)
	is.Equal([]int{1}, observer.next)
	is.False(observer.completed)

	observer.subscription.Request(4)
	is.Equal([]int{1, 2, 3, 4, 5}, observer.next)
	is.True(observer.completed)
}

func TestFlowObserveOn_cancelPropagatesToUpstreamArbiter(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	upstream := FlowJust(1, 2, 3)
	observer := &recordingFlowObserver[int]{}
	FlowObserveOn[int](NewImmediateScheduler(), false, 1)(upstream).Subscribe(observer)

	observer.subscription.Request(1)
	is.Equal([]int{1}, observer.next)

	observer.subscription.Cancel()
	observer.subscription.Request(10)
	is.Equal([]int{1}, observer.next)
	is.False(observer.completed)
}

func TestFlowObserveOn_delayErrorHoldsErrorUntilQueueDrains(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewFlow(func(observer FlowObserver[int]) {
		subscriber := NewFlowSubscriber[int](observer, func(n int64) {}, func() {})
		subscriber.tryEmit(1)
		subscriber.tryEmit(2)
		subscriber.emitError(assert.AnError)
	})

	observer := &recordingFlowObserver[int]{}
	FlowObserveOn[int](NewImmediateScheduler(), true, 2)(source).Subscribe(observer)

	observer.subscription.Request(1)
	is.Equal([]int{1}, observer.next)
	is.Nil(observer.err)

	observer.subscription.Request(1)
	is.Equal([]int{1, 2}, observer.next)
	is.ErrorIs(observer.err, assert.AnError)
}
