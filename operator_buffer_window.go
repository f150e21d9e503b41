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

// BufferCount collects values from source into non-overlapping []T slices
// of size count, emitting each slice as it fills. A shorter final slice is
// emitted when source completes with a partial buffer.
func BufferCount[T any](count int) func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
			buffer := make([]T, 0, count)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						buffer = append(buffer, value)
						if len(buffer) == count {
							destination.NextWithContext(ctx, buffer)
							buffer = make([]T, 0, count)
						}
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						if len(buffer) > 0 {
							destination.NextWithContext(ctx, buffer)
						}
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// BufferTime collects values from source into []T slices covering
// non-overlapping duration-long windows, emitting each slice (even if
// empty) when its window closes.
func BufferTime[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			buffer := []T{}

			flush := func() {
				mu.Lock()
				b := buffer
				buffer = []T{}
				mu.Unlock()
				destination.NextWithContext(ctx, b)
			}

			worker.SchedulePeriodic(duration, duration, flush)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(_ context.Context, value T) {
						mu.Lock()
						buffer = append(buffer, value)
						mu.Unlock()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						b := buffer
						buffer = nil
						mu.Unlock()
						if len(b) > 0 {
							destination.NextWithContext(ctx, b)
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

// WindowCount partitions source into a sequence of inner Observables
// (emitted on the returned Observable), each relaying up to count values
// from source before completing and starting the next window.
func WindowCount[T any](count int) func(Observable[T]) Observable[Observable[T]] {
	return func(source Observable[T]) Observable[Observable[T]] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[Observable[T]]) Teardown {
			var current Subject[T]
			seenInWindow := 0

			openWindow := func(ctx context.Context) {
				current = NewPublishSubject[T]()
				destination.NextWithContext(ctx, current.AsObservable())
				seenInWindow = 0
			}

			openWindow(ctx)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						current.NextWithContext(ctx, value)
						seenInWindow++

						if seenInWindow == count {
							current.CompleteWithContext(ctx)
							openWindow(ctx)
						}
					},
					func(ctx context.Context, err error) {
						current.ErrorWithContext(ctx, err)
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						current.CompleteWithContext(ctx)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// WindowTime partitions source into a sequence of inner Observables, each
// relaying values from source for duration before completing and starting
// the next window.
func WindowTime[T any](duration time.Duration, scheduler Scheduler) func(Observable[T]) Observable[Observable[T]] {
	return func(source Observable[T]) Observable[Observable[T]] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[Observable[T]]) Teardown {
			worker := scheduler.CreateWorker()
			var mu sync.Mutex
			var current Subject[T]

			openWindow := func(ctx context.Context) {
				mu.Lock()
				current = NewPublishSubject[T]()
				c := current
				mu.Unlock()
				destination.NextWithContext(ctx, c.AsObservable())
			}

			closeAndReopen := func() {
				mu.Lock()
				c := current
				mu.Unlock()
				c.CompleteWithContext(ctx)
				openWindow(ctx)
			}

			openWindow(ctx)
			worker.SchedulePeriodic(duration, duration, closeAndReopen)

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.ErrorWithContext(ctx, err)
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.CompleteWithContext(ctx)
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

// WindowBoundary partitions source into a sequence of inner Observables,
// closing the current window and opening the next one every time boundary
// emits a value.
func WindowBoundary[T, B any](boundary Observable[B]) func(Observable[T]) Observable[Observable[T]] {
	return func(source Observable[T]) Observable[Observable[T]] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[Observable[T]]) Teardown {
			var mu sync.Mutex
			var current Subject[T]
			sourceDone := false
			boundaryDone := false

			openWindow := func(ctx context.Context) {
				mu.Lock()
				current = NewPublishSubject[T]()
				c := current
				mu.Unlock()
				destination.NextWithContext(ctx, c.AsObservable())
			}

			openWindow(ctx)

			finishIfDone := func(ctx context.Context) {
				if sourceDone && boundaryDone {
					destination.CompleteWithContext(ctx)
				}
			}

			sourceSub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.ErrorWithContext(ctx, err)
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						c := current
						sourceDone = true
						mu.Unlock()
						c.CompleteWithContext(ctx)
						finishIfDone(ctx)
					},
				),
			)

			boundarySub := boundary.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, _ B) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.CompleteWithContext(ctx)
						openWindow(ctx)
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						c := current
						mu.Unlock()
						c.ErrorWithContext(ctx, err)
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						boundaryDone = true
						mu.Unlock()
						finishIfDone(ctx)
					},
				),
			)

			return func() {
				sourceSub.Unsubscribe()
				boundarySub.Unsubscribe()
			}
		})
	}
}
