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
	"time"
)

// Debounce emits a value only after duration has elapsed without the
// source emitting another value; every new value resets the timer, so a
// fast-repeating source never emits until it goes quiet.
func Debounce[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			var pending T
			hasPending := false
			generation := uint64(0)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						pending = value
						hasPending = true
						generation++
						gen := generation
						mu.Unlock()

						worker.Schedule(duration, func() {
							mu.Lock()
							if hasPending && gen == generation {
								v := pending
								hasPending = false
								mu.Unlock()
								destination.NextWithContext(ctx, v)
							} else {
								mu.Unlock()
							}
						})
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						v := pending
						has := hasPending
						hasPending = false
						mu.Unlock()

						if has {
							destination.NextWithContext(ctx, v)
						}
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Dispose()
			}
		})
	}
}

// ThrottleFirst emits the first value in each duration-long window, then
// ignores subsequent values until the window elapses.
func ThrottleFirst[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			throttled := false

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						if throttled {
							mu.Unlock()
							return
						}
						throttled = true
						mu.Unlock()

						destination.NextWithContext(ctx, value)

						worker.Schedule(duration, func() {
							mu.Lock()
							throttled = false
							mu.Unlock()
						})
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Dispose()
			}
		})
	}
}

// ThrottleLast emits the most recent value seen in each duration-long
// window, sampled at the end of the window (a.k.a. auditTime).
func ThrottleLast[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			var latest T
			hasLatest := false
			windowOpen := false

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						latest = value
						hasLatest = true
						startWindow := !windowOpen
						if startWindow {
							windowOpen = true
						}
						mu.Unlock()

						if startWindow {
							worker.Schedule(duration, func() {
								mu.Lock()
								v := latest
								has := hasLatest
								hasLatest = false
								windowOpen = false
								mu.Unlock()

								if has {
									destination.NextWithContext(ctx, v)
								}
							})
						}
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Dispose()
			}
		})
	}
}

// Sample emits the most recent value from source every time sampler emits,
// or nothing if source has not emitted since the previous sample.
func Sample[T, S any](sampler Observable[S]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			var latest T
			hasLatest := false
			sourceDone := false
			samplerDone := false

			sourceSub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(_ context.Context, value T) {
						mu.Lock()
						latest = value
						hasLatest = true
						mu.Unlock()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						sourceDone = true
						done := samplerDone
						mu.Unlock()
						if done {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)

			samplerSub := sampler.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, _ S) {
						mu.Lock()
						v := latest
						has := hasLatest
						hasLatest = false
						mu.Unlock()

						if has {
							destination.NextWithContext(ctx, v)
						}
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						samplerDone = true
						done := sourceDone
						mu.Unlock()
						if done {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)

			return func() {
				sourceSub.Unsubscribe()
				samplerSub.Unsubscribe()
			}
		})
	}
}

// Timeout errors with ErrTimeout if source does not emit (Next, Error, or
// Complete) within duration of the previous notification (or of
// subscription, for the first one).
func Timeout[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			timedOut := false
			generation := uint64(0)

			var sub Subscription

			armTimer := func() {
				mu.Lock()
				generation++
				gen := generation
				mu.Unlock()

				worker.Schedule(duration, func() {
					mu.Lock()
					if timedOut || gen != generation {
						mu.Unlock()
						return
					}
					timedOut = true
					mu.Unlock()

					destination.ErrorWithContext(ctx, ErrTimeout)
					sub.Unsubscribe()
				})
			}

			armTimer()

			sub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						if timedOut {
							mu.Unlock()
							return
						}
						mu.Unlock()
						destination.NextWithContext(ctx, value)
						armTimer()
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						if timedOut {
							mu.Unlock()
							return
						}
						mu.Unlock()
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						if timedOut {
							mu.Unlock()
							return
						}
						mu.Unlock()
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Dispose()
			}
		})
	}
}

// Delay shifts every notification from source later by duration, preserving
// relative ordering and spacing.
func Delay[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			worker := scheduler.CreateWorker()

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						worker.Schedule(duration, func() {
							destination.NextWithContext(ctx, value)
						})
					},
					func(ctx context.Context, err error) {
						worker.Schedule(duration, func() {
							destination.ErrorWithContext(ctx, err)
						})
					},
					func(ctx context.Context) {
						worker.Schedule(duration, func() {
							destination.CompleteWithContext(ctx)
						})
					},
				),
			)

			return func() {
				sub.Unsubscribe()
				worker.Dispose()
			}
		})
	}
}
