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

// Factory contracts only (§1 scope, §6.1): each is cold, restartable on
// every Subscribe, and finite unless documented otherwise.
package ro

import (
	"context"
	"time"
)

// Just emits the given values, in order, then completes. Cold, finite,
// restartable.
func Just[T any](values ...T) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		for _, v := range values {
			if destination.IsClosed() {
				return nil
			}

			destination.NextWithContext(ctx, v)
		}

		destination.CompleteWithContext(ctx)

		return nil
	})
}

// Of is an alias for Just; both names are kept.
func Of[T any](values ...T) Observable[T] {
	return Just(values...)
}

// FromSlice emits every element of s, in order, then completes. Cold,
// finite, restartable. The slice is read once per subscription; mutating it
// concurrently with an in-flight subscription is undefined.
func FromSlice[T any](s []T) Observable[T] {
	return Just(s...)
}

// FromChannel relays every value received from ch until ch is closed, at
// which point it completes. Hot with respect to the channel (the channel is
// not re-created per subscription) but exposed here as a simple bridge
// source; wrap with Publish if multiple subscribers must share one channel.
func FromChannel[T any](ch <-chan T) Observable[T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		done := make(chan struct{})

		go func() {
			defer close(done)

			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						destination.CompleteWithContext(ctx)
						return
					}

					destination.NextWithContext(ctx, v)
				}
			}
		}()

		return func() {
			<-done
		}
	})
}

// Range emits count consecutive integers starting at start, then completes.
// Cold, finite, restartable.
func Range(start, count int) Observable[int] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[int]) Teardown {
		if count < 0 {
			destination.ErrorWithContext(ctx, ErrIllegalArgument)
			return nil
		}

		for i := 0; i < count; i++ {
			if destination.IsClosed() {
				return nil
			}

			destination.NextWithContext(ctx, start+i)
		}

		destination.CompleteWithContext(ctx)

		return nil
	})
}

// Empty completes immediately without emitting any value. Cold, finite,
// restartable.
func Empty[T any]() Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.CompleteWithContext(ctx)
		return nil
	})
}

// Never never emits any notification and never completes. Cold, infinite
// (vacuously), restartable; Unsubscribe is the only way out.
func Never[T any]() Observable[T] {
	return NewUnsafeObservableWithContext(func(_ context.Context, _ Observer[T]) Teardown {
		return nil
	})
}

// Throw immediately signals err and nothing else. Cold, finite, restartable.
func Throw[T any](err error) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.ErrorWithContext(ctx, err)
		return nil
	})
}

// Defer calls supplier for every new subscription and subscribes to the
// Observable it returns. Use this to avoid sharing state between
// subscriptions, or to defer side effects until subscribe time.
func Defer[T any](supplier func() Observable[T]) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		source := supplier()
		sub := source.SubscribeWithContext(ctx, destination)
		return sub.Unsubscribe
	})
}

// Generate produces a sequence by repeatedly applying step to an evolving
// state, starting from initial, until shouldContinue reports false. disposeState,
// if non-nil, is called with the final state when the subscription ends
// (normally or via cancellation), mirroring generate's contract of owning a
// resource tied to the iteration state.
func Generate[S, T any](initial S, shouldContinue func(S) bool, step func(S) (S, T), disposeState func(S)) Observable[T] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		state := initial

		for shouldContinue(state) {
			if destination.IsClosed() {
				break
			}

			var value T
			state, value = step(state)
			destination.NextWithContext(ctx, value)
		}

		if !destination.IsClosed() {
			destination.CompleteWithContext(ctx)
		}

		return func() {
			if disposeState != nil {
				disposeState(state)
			}
		}
	})
}

// Timer emits a single value (the tick count, 0) after delay elapses on
// scheduler, then completes.
func Timer(delay time.Duration, scheduler Scheduler) Observable[int64] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[int64]) Teardown {
		worker := scheduler.CreateWorker()

		worker.Schedule(delay, func() {
			destination.NextWithContext(ctx, 0)
			destination.CompleteWithContext(ctx)
		})

		return worker.Dispose
	})
}

// Interval emits consecutive integers (0, 1, 2, ...) every period on
// scheduler, indefinitely. Hot with respect to the clock (each subscription
// still starts its own counter at 0, but is driven by the shared scheduler).
func Interval(period time.Duration, scheduler Scheduler) Observable[int64] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[int64]) Teardown {
		worker := scheduler.CreateWorker()

		var n int64

		worker.SchedulePeriodic(period, period, func() {
			destination.NextWithContext(ctx, n)
			n++
		})

		return worker.Dispose
	})
}
