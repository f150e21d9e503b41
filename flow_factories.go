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

// FlowJust emits the given values, one per unit of downstream demand, then
// completes. Cold, finite, restartable.
func FlowJust[T any](values ...T) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		var mu sync.Mutex
		index := 0

		var subscriber *flowSubscriber[T]

		drain := func() {
			for {
				mu.Lock()
				if index >= len(values) {
					mu.Unlock()
					subscriber.emitComplete()
					return
				}
				if !subscriber.isActive() {
					mu.Unlock()
					return
				}
				v := values[index]
				index++
				mu.Unlock()

				if !subscriber.tryEmit(v) {
					mu.Lock()
					index--
					mu.Unlock()
					return
				}
			}
		}

		subscriber = NewFlowSubscriber[T](observer, func(n int64) {
			drain()
		}, func() {})
	})
}

// FlowFromSlice emits every element of s, then completes. See FlowJust.
func FlowFromSlice[T any](s []T) Flow[T] {
	return FlowJust(s...)
}

// FlowEmpty completes immediately without emitting any value or waiting for
// demand.
func FlowEmpty[T any]() Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		subscriber := NewFlowSubscriber[T](observer, func(int64) {}, func() {})
		subscriber.emitComplete()
	})
}

// FlowThrow immediately signals err, regardless of outstanding demand.
func FlowThrow[T any](err error) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		subscriber := NewFlowSubscriber[T](observer, func(int64) {}, func() {})
		subscriber.emitError(err)
	})
}

// ToFlow bridges a non-backpressured Observable into a Flow by buffering
// every source value in an unbounded queue and draining it against
// downstream demand — i.e. an implicit OnBackpressureBuffer (§4.7).
func ToFlow[T any](source Observable[T]) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		buffer := []T{}
		var mu sync.Mutex
		sourceDone := false
		var sourceErr error
		var subscription Subscription

		var subscriber *flowSubscriber[T]

		drain := func() {
			for {
				mu.Lock()
				if len(buffer) == 0 {
					done := sourceDone
					err := sourceErr
					mu.Unlock()

					if done {
						if err != nil {
							subscriber.emitError(err)
						} else {
							subscriber.emitComplete()
						}
					}
					return
				}
				if !subscriber.isActive() {
					mu.Unlock()
					return
				}

				v := buffer[0]
				mu.Unlock()

				if !subscriber.tryEmit(v) {
					return
				}

				mu.Lock()
				buffer = buffer[1:]
				mu.Unlock()
			}
		}

		subscriber = NewFlowSubscriber[T](observer, func(n int64) {
			drain()
		}, func() {
			if subscription != nil {
				subscription.Unsubscribe()
			}
		})

		subscription = source.Subscribe(NewObserver(
			func(value T) {
				mu.Lock()
				buffer = append(buffer, value)
				mu.Unlock()
				drain()
			},
			func(err error) {
				mu.Lock()
				sourceDone = true
				sourceErr = err
				mu.Unlock()
				drain()
			},
			func() {
				mu.Lock()
				sourceDone = true
				mu.Unlock()
				drain()
			},
		))
	})
}

// FromFlow bridges a Flow into a non-backpressured Observable by requesting
// an effectively unbounded amount of demand up front and relaying every
// value as it arrives.
func FromFlow[T any](source Flow[T]) Observable[T] {
	return NewObservable(func(destination Observer[T]) Teardown {
		var subscription FlowSubscription

		source.Subscribe(flowToObserverAdapter[T]{
			onSubscribe: func(sub FlowSubscription) {
				subscription = sub
				sub.Request(maxRequest)
			},
			onNext:     destination.Next,
			onError:    destination.Error,
			onComplete: destination.Complete,
		})

		return func() {
			if subscription != nil {
				subscription.Cancel()
			}
		}
	})
}

type flowToObserverAdapter[T any] struct {
	onSubscribe func(FlowSubscription)
	onNext      func(T)
	onError     func(error)
	onComplete  func()
}

func (a flowToObserverAdapter[T]) OnSubscribe(subscription FlowSubscription) {
	a.onSubscribe(subscription)
}
func (a flowToObserverAdapter[T]) OnNext(value T) { a.onNext(value) }
func (a flowToObserverAdapter[T]) OnError(err error) { a.onError(err) }
func (a flowToObserverAdapter[T]) OnComplete() { a.onComplete() }
