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
	"reflect"
)

// Map applies project to every value emitted by the source Observable.
func Map[T, R any](project func(value T) R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						destination.NextWithContext(ctx, project(value))
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Filter emits only the values for which predicate returns true.
func Filter[T any](predicate func(value T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if predicate(value) {
							destination.NextWithContext(ctx, value)
						}
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Scan applies accumulator to each value, starting from seed, and emits each
// intermediate accumulated value (unlike a plain fold, which only emits the
// final result).
func Scan[T, R any](accumulator func(acc R, value T) R, seed R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			acc := seed

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						acc = accumulator(acc, value)
						destination.NextWithContext(ctx, acc)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Take emits only the first count values, then completes (unsubscribing
// from source immediately once count values have been seen).
func Take[T any](count int) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			if count <= 0 {
				destination.CompleteWithContext(ctx)
				return nil
			}

			seen := 0
			var sub Subscription

			sub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						seen++
						destination.NextWithContext(ctx, value)

						if seen >= count {
							destination.CompleteWithContext(ctx)
							sub.Unsubscribe()
						}
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// TakeWhile emits values while predicate returns true, then completes on the
// first value for which it returns false (that value itself is not emitted,
// unless inclusive is true).
func TakeWhile[T any](predicate func(value T) bool, inclusive bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var sub Subscription

			sub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if !predicate(value) {
							if inclusive {
								destination.NextWithContext(ctx, value)
							}
							destination.CompleteWithContext(ctx)
							sub.Unsubscribe()
							return
						}

						destination.NextWithContext(ctx, value)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Skip drops the first count values, then emits everything after.
func Skip[T any](count int) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			seen := 0

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						seen++
						if seen > count {
							destination.NextWithContext(ctx, value)
						}
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// SkipWhile drops values while predicate returns true, then emits
// everything from the first value for which it returns false onward
// (including that value).
func SkipWhile[T any](predicate func(value T) bool) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			skipping := true

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if skipping && predicate(value) {
							return
						}
						skipping = false
						destination.NextWithContext(ctx, value)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Distinct emits only values not previously seen, keyed by equality on the
// value itself. The seen set grows unboundedly for the lifetime of the
// subscription; use DistinctUntilChanged for an O(1)-memory alternative.
func Distinct[T comparable]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			seen := map[T]struct{}{}

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if _, ok := seen[value]; ok {
							return
						}
						seen[value] = struct{}{}
						destination.NextWithContext(ctx, value)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// DistinctUntilChanged emits a value only when it differs from the
// immediately preceding emitted value (reflect.DeepEqual), collapsing
// consecutive runs of equal values into one.
func DistinctUntilChanged[T any]() func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			hasPrevious := false
			var previous T

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if hasPrevious && reflect.DeepEqual(previous, value) {
							return
						}
						hasPrevious = true
						previous = value
						destination.NextWithContext(ctx, value)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Tap invokes onNext/onError/onComplete for their respective side effects,
// without altering the notifications passing through. Any of the three may
// be nil.
func Tap[T any](onNext func(value T), onError func(err error), onComplete func()) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if onNext != nil {
							onNext(value)
						}
						destination.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						if onError != nil {
							onError(err)
						}
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						if onComplete != nil {
							onComplete()
						}
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// ToSlice collects every emitted value into a single []T slice, emitted
// once when the source completes.
func ToSlice[T any]() func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
			values := []T{}

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(_ context.Context, value T) {
						values = append(values, value)
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						destination.NextWithContext(ctx, values)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Cast asserts every emitted value to type R, emitting ErrIllegalArgument
// and terminating the stream on the first value that does not hold an R.
func Cast[T any, R any]() func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var sub Subscription

			sub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						casted, ok := any(value).(R)
						if !ok {
							destination.ErrorWithContext(ctx, ErrIllegalArgument)
							sub.Unsubscribe()
							return
						}
						destination.NextWithContext(ctx, casted)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}
