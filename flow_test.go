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

type recordingFlowObserver[T any] struct {
	subscription FlowSubscription
	next         []T
	err          error
	completed    bool
}

func (o *recordingFlowObserver[T]) OnSubscribe(s FlowSubscription) { o.subscription = s }
func (o *recordingFlowObserver[T]) OnNext(value T)                 { o.next = append(o.next, value) }
func (o *recordingFlowObserver[T]) OnError(err error)              { o.err = err }
func (o *recordingFlowObserver[T]) OnComplete()                    { o.completed = true }

func TestFlowJust_deliversOnlyUpToRequestedDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowJust(1, 2, 3).Subscribe(observer)

	is.NotNil(observer.subscription)
	is.Empty(observer.next)

	observer.subscription.Request(2)
	is.Equal([]int{1, 2}, observer.next)
	is.False(observer.completed)

	observer.subscription.Request(1)
	is.Equal([]int{1, 2, 3}, observer.next)
	is.True(observer.completed)
}

func TestFlowJust_illegalRequestCancelsAndErrors(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowJust(1, 2, 3).Subscribe(observer)

	observer.subscription.Request(0)
	is.ErrorIs(observer.err, ErrIllegalArgument)
	is.Empty(observer.next)

	// cancellation is absorbing: further legal requests produce nothing
	observer.subscription.Request(5)
	is.Empty(observer.next)
}

func TestFlowEmpty_completesWithoutDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[string]{}
	FlowEmpty[string]().Subscribe(observer)

	is.True(observer.completed)
	is.Empty(observer.next)
}

func TestFlowThrow_errorsWithoutDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowThrow[int](assert.AnError).Subscribe(observer)

	is.ErrorIs(observer.err, assert.AnError)
	is.False(observer.completed)
}

func TestFlowSubscriber_cancelStopsFurtherDelivery(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	FlowJust(1, 2, 3).Subscribe(observer)

	observer.subscription.Request(1)
	is.Equal([]int{1}, observer.next)

	observer.subscription.Cancel()
	observer.subscription.Request(10)
	is.Equal([]int{1}, observer.next)
	is.False(observer.completed)
}

func TestFlowMap_projectsValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	doubled := FlowMap(func(v int) int { return v * 2 })(FlowJust(1, 2, 3))

	observer := &recordingFlowObserver[int]{}
	doubled.Subscribe(observer)
	observer.subscription.Request(3)

	is.Equal([]int{2, 4, 6}, observer.next)
	is.True(observer.completed)
}

func TestFlowFilter_skipsRejectedValuesWithoutStalling(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	evens := FlowFilter(func(v int) bool { return v%2 == 0 })(FlowFromSlice([]int{1, 2, 3, 4, 5}))

	observer := &recordingFlowObserver[int]{}
	evens.Subscribe(observer)
	observer.subscription.Request(5)

	is.Equal([]int{2, 4}, observer.next)
	is.True(observer.completed)
}

func TestFromFlow_bridgesToObservable(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(FromFlow(FlowJust(1, 2, 3)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestToFlow_bridgesFromObservable(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	observer := &recordingFlowObserver[int]{}
	ToFlow(Just(1, 2, 3)).Subscribe(observer)
	observer.subscription.Request(maxRequest)

	is.Equal([]int{1, 2, 3}, observer.next)
	is.True(observer.completed)
}
