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
	"context"
	"sync"

	"github.com/reactive-go/ro/internal/queue"
)

// OnBackpressureBuffer bridges a non-backpressured Observable into a Flow
// by buffering every source value (bounded at capacity if capacity > 0,
// unbounded otherwise) and draining against downstream demand. Overflowing
// a bounded buffer errors the Flow with ErrMissingBackpressure (§4.7).
func OnBackpressureBuffer[T any](source Observable[T], capacity int) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		q := queue.NewBounded[T](capacity)
		var mu sync.Mutex
		sourceDone := false
		var sourceErr error
		var subscription Subscription

		var subscriber *flowSubscriber[T]

		drain := func() {
			for {
				v, ok := q.Peek()
				if !ok {
					mu.Lock()
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
					return
				}
				if !subscriber.tryEmit(v) {
					return
				}
				q.Poll()
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
				if !q.Offer(value) {
					subscriber.emitError(ErrMissingBackpressure)
					subscription.Unsubscribe()
					return
				}
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

// OnBackpressureDrop bridges a non-backpressured Observable into a Flow,
// discarding any source value that arrives while outstanding downstream
// demand is zero (§4.7).
func OnBackpressureDrop[T any](source Observable[T]) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		var subscription Subscription

		subscriber := NewFlowSubscriber[T](observer, func(int64) {}, func() {
			if subscription != nil {
				subscription.Unsubscribe()
			}
		})

		subscription = source.Subscribe(NewObserver(
			func(value T) {
				if !subscriber.tryEmit(value) {
					OnDroppedNotification(context.Background(), NewNotificationNext(value))
				}
			},
			subscriber.emitError,
			subscriber.emitComplete,
		))
	})
}

// OnBackpressureLatest bridges a non-backpressured Observable into a Flow,
// keeping only the most recently seen source value until downstream
// demand allows delivering it (§4.7).
func OnBackpressureLatest[T any](source Observable[T]) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		var mu sync.Mutex
		var latest T
		hasLatest := false
		sourceDone := false
		var sourceErr error
		var subscription Subscription

		var subscriber *flowSubscriber[T]

		drain := func() {
			for {
				mu.Lock()
				if !hasLatest {
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
				v := latest
				mu.Unlock()

				if !subscriber.isActive() {
					return
				}
				if !subscriber.tryEmit(v) {
					return
				}

				mu.Lock()
				hasLatest = false
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
				latest = value
				hasLatest = true
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

// OnBackpressureError bridges a non-backpressured Observable into a Flow
// that signals ErrMissingBackpressure as soon as a source value arrives
// with no outstanding downstream demand (§4.7).
func OnBackpressureError[T any](source Observable[T]) Flow[T] {
	return NewFlow(func(observer FlowObserver[T]) {
		var subscription Subscription

		subscriber := NewFlowSubscriber[T](observer, func(int64) {}, func() {
			if subscription != nil {
				subscription.Unsubscribe()
			}
		})

		subscription = source.Subscribe(NewObserver(
			func(value T) {
				if !subscriber.tryEmit(value) {
					subscriber.emitError(ErrMissingBackpressure)
					subscription.Unsubscribe()
				}
			},
			subscriber.emitError,
			subscriber.emitComplete,
		))
	})
}

// FlowObserveOn relays source onto workers created by scheduler, decoupling
// the emitting goroutine from the observing one via a bounded ring queue of
// size bufferSize. When delayError is false, an upstream error preempts any
// values still queued; when true, the error is held and only delivered once
// the queue has fully drained (§4.7). Upstream demand is kept topped off at
// bufferSize: the initial subscription requests bufferSize items, and every
// item the drain loop actually delivers downstream requests exactly one
// more, so outstanding upstream demand tracks downstream consumption instead
// of being granted once and left to run dry. Upstream is held behind a
// SubscriptionArbiter (§4.4) so a Request arriving before onSubscribe fires
// (the downstream consumer can call Request synchronously out of
// OnSubscribe) is carried over instead of lost.
func FlowObserveOn[T any](scheduler Scheduler, delayError bool, bufferSize int) func(Flow[T]) Flow[T] {
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(observer FlowObserver[T]) {
			q := queue.NewBounded[T](bufferSize)
			worker := scheduler.CreateWorker()
			arbiter := NewSubscriptionArbiter()

			var mu sync.Mutex
			draining := false
			missed := false
			var terminalErr error
			hasTerminalErr := false
			completed := false

			var subscriber *flowSubscriber[T]

			scheduleDrain := func() {
				worker.Schedule(0, func() {
					for {
						mu.Lock()
						if draining {
							missed = true
							mu.Unlock()
							return
						}
						draining = true
						mu.Unlock()

						for {
							if !delayError {
								mu.Lock()
								if hasTerminalErr {
									err := terminalErr
									mu.Unlock()
									subscriber.emitError(err)
									return
								}
								mu.Unlock()
							}

							v, ok := q.Peek()
							if !ok {
								break
							}
							if !subscriber.tryEmit(v) {
								break
							}
							q.Poll()
							arbiter.Request(1)
						}

						mu.Lock()
						empty := q.Len() == 0
						isCompleted := completed
						hasErr := hasTerminalErr
						err := terminalErr
						mu.Unlock()

						if empty && hasErr {
							subscriber.emitError(err)
							return
						}
						if empty && isCompleted {
							subscriber.emitComplete()
							return
						}

						mu.Lock()
						if missed {
							missed = false
							draining = false
							mu.Unlock()
							continue
						}
						draining = false
						mu.Unlock()
						return
					}
				})
			}

			subscriber = NewFlowSubscriber[T](observer, func(n int64) {
				scheduleDrain()
			}, func() {
				arbiter.Cancel()
				worker.Dispose()
			})

			source.Subscribe(flowToObserverAdapter[T]{
				onSubscribe: func(sub FlowSubscription) {
					arbiter.SetSubscription(sub)
					arbiter.Request(int64(bufferSize))
				},
				onNext: func(value T) {
					if !q.Offer(value) {
						mu.Lock()
						terminalErr = ErrMissingBackpressure
						hasTerminalErr = true
						mu.Unlock()
					}
					scheduleDrain()
				},
				onError: func(err error) {
					mu.Lock()
					terminalErr = err
					hasTerminalErr = true
					mu.Unlock()
					scheduleDrain()
				},
				onComplete: func() {
					mu.Lock()
					completed = true
					mu.Unlock()
					scheduleDrain()
				},
			})
		})
	}
}
