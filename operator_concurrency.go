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
)

// Merge subscribes to every source concurrently and forwards every value as
// it arrives (interleaved), completing only once every source has completed,
// and erroring (and unsubscribing from the rest) as soon as any source
// errors.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		var mu sync.Mutex
		remaining := len(sources)
		subs := make([]Subscription, len(sources))

		if remaining == 0 {
			destination.CompleteWithContext(ctx)
			return nil
		}

		unsubscribeAll := func() {
			for _, s := range subs {
				if s != nil {
					s.Unsubscribe()
				}
			}
		}

		for i, source := range sources {
			i := i
			subs[i] = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						defer mu.Unlock()
						destination.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						defer mu.Unlock()
						destination.ErrorWithContext(ctx, err)
						go unsubscribeAll()
					},
					func(ctx context.Context) {
						mu.Lock()
						remaining--
						done := remaining == 0
						mu.Unlock()

						if done {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)
		}

		return unsubscribeAll
	})
}

// FlatMap projects each source value to an inner Observable via project and
// merges the resulting Observables concurrently, with no ordering guarantee
// between interleaved inner emissions (§4.8's unordered flattening
// operator).
func FlatMap[T, R any](project func(value T) Observable[R]) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			outerDone := false
			active := 0
			var innerSubs []Subscription
			var outerSub Subscription

			checkComplete := func(ctx context.Context) {
				if outerDone && active == 0 {
					destination.CompleteWithContext(ctx)
				}
			}

			outerSub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						inner := project(value)

						mu.Lock()
						active++
						mu.Unlock()

						var innerSub Subscription
						innerSub = inner.SubscribeWithContext(
							ctx,
							NewObserverWithContext(
								func(ctx context.Context, innerValue R) {
									mu.Lock()
									defer mu.Unlock()
									destination.NextWithContext(ctx, innerValue)
								},
								func(ctx context.Context, err error) {
									destination.ErrorWithContext(ctx, err)
								},
								func(ctx context.Context) {
									mu.Lock()
									active--
									mu.Unlock()
									checkComplete(ctx)
								},
							),
						)

						mu.Lock()
						innerSubs = append(innerSubs, innerSub)
						mu.Unlock()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						outerDone = true
						mu.Unlock()
						checkComplete(ctx)
					},
				),
			)

			return func() {
				outerSub.Unsubscribe()
				mu.Lock()
				defer mu.Unlock()
				for _, s := range innerSubs {
					s.Unsubscribe()
				}
			}
		})
	}
}

// ConcatMap projects each source value to an inner Observable and
// subscribes to them strictly one at a time, in source order: the next
// inner Observable is not subscribed to until the previous one completes.
func ConcatMap[T, R any](project func(value T) Observable[R]) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			queue := []T{}
			active := false
			outerDone := false
			var innerSub Subscription
			var outerSub Subscription

			var drain func()
			drain = func() {
				mu.Lock()
				if active || len(queue) == 0 {
					if !active && outerDone && len(queue) == 0 {
						mu.Unlock()
						destination.CompleteWithContext(ctx)
						return
					}
					mu.Unlock()
					return
				}

				value := queue[0]
				queue = queue[1:]
				active = true
				mu.Unlock()

				inner := project(value)
				innerSub = inner.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						func(ctx context.Context, innerValue R) {
							destination.NextWithContext(ctx, innerValue)
						},
						destination.ErrorWithContext,
						func(ctx context.Context) {
							mu.Lock()
							active = false
							mu.Unlock()
							drain()
						},
					),
				)
			}

			outerSub = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						queue = append(queue, value)
						mu.Unlock()
						drain()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						outerDone = true
						isActive := active
						isEmpty := len(queue) == 0
						mu.Unlock()

						if !isActive && isEmpty {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)

			return func() {
				outerSub.Unsubscribe()
				if innerSub != nil {
					innerSub.Unsubscribe()
				}
			}
		})
	}
}

// SwitchMap projects each source value to an inner Observable, always
// keeping only the most recently projected one subscribed: a new outer
// value unsubscribes from whatever inner Observable is currently active.
func SwitchMap[T, R any](project func(value T) Observable[R]) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex
			var currentInner Subscription
			outerDone := false
			innerActive := false
			generation := 0

			outerSub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						if currentInner != nil {
							currentInner.Unsubscribe()
						}
						generation++
						myGen := generation
						innerActive = true
						mu.Unlock()

						inner := project(value)
						var innerSub Subscription
						innerSub = inner.SubscribeWithContext(
							ctx,
							NewObserverWithContext(
								func(ctx context.Context, innerValue R) {
									mu.Lock()
									stale := myGen != generation
									mu.Unlock()
									if !stale {
										destination.NextWithContext(ctx, innerValue)
									}
								},
								destination.ErrorWithContext,
								func(ctx context.Context) {
									mu.Lock()
									stale := myGen != generation
									if !stale {
										innerActive = false
									}
									done := outerDone && !innerActive
									mu.Unlock()

									if done && !stale {
										destination.CompleteWithContext(ctx)
									}
								},
							),
						)

						mu.Lock()
						currentInner = innerSub
						mu.Unlock()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						outerDone = true
						done := !innerActive
						mu.Unlock()

						if done {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)

			return func() {
				outerSub.Unsubscribe()
				mu.Lock()
				defer mu.Unlock()
				if currentInner != nil {
					currentInner.Unsubscribe()
				}
			}
		})
	}
}

// Amb subscribes to every source concurrently and mirrors whichever one
// emits (Next, Error, or Complete) first, immediately unsubscribing from
// every other source ("ambiguous race" combinator).
func Amb[T any](sources ...Observable[T]) Observable[T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		var mu sync.Mutex
		winner := -1
		subs := make([]Subscription, len(sources))

		unsubscribeLosers := func(winnerIdx int) {
			for i, s := range subs {
				if i != winnerIdx && s != nil {
					s.Unsubscribe()
				}
			}
		}

		for i, source := range sources {
			i := i
			subs[i] = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						if winner == -1 {
							winner = i
							go unsubscribeLosers(i)
						}
						isWinner := winner == i
						mu.Unlock()

						if isWinner {
							destination.NextWithContext(ctx, value)
						}
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						if winner == -1 {
							winner = i
							go unsubscribeLosers(i)
						}
						isWinner := winner == i
						mu.Unlock()

						if isWinner {
							destination.ErrorWithContext(ctx, err)
						}
					},
					func(ctx context.Context) {
						mu.Lock()
						if winner == -1 {
							winner = i
							go unsubscribeLosers(i)
						}
						isWinner := winner == i
						mu.Unlock()

						if isWinner {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)
		}

		return func() {
			for _, s := range subs {
				if s != nil {
					s.Unsubscribe()
				}
			}
		}
	})
}

// Zip subscribes to every source and emits a []T tuple (one element per
// source, in source order) once every source has produced a value at that
// index; it completes as soon as any source completes and has no more
// buffered values left to pair.
func Zip[T any](sources ...Observable[T]) Observable[[]T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
		var mu sync.Mutex
		buffers := make([][]T, len(sources))
		completed := make([]bool, len(sources))
		subs := make([]Subscription, len(sources))

		tryEmit := func(ctx context.Context) {
			for {
				ready := true
				for _, b := range buffers {
					if len(b) == 0 {
						ready = false
						break
					}
				}
				if !ready {
					return
				}

				tuple := make([]T, len(sources))
				for i := range buffers {
					tuple[i] = buffers[i][0]
					buffers[i] = buffers[i][1:]
				}
				destination.NextWithContext(ctx, tuple)
			}
		}

		checkComplete := func(ctx context.Context) {
			for i, c := range completed {
				if c && len(buffers[i]) == 0 {
					destination.CompleteWithContext(ctx)
					return
				}
			}
		}

		for i, source := range sources {
			i := i
			subs[i] = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						defer mu.Unlock()
						buffers[i] = append(buffers[i], value)
						tryEmit(ctx)
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						defer mu.Unlock()
						completed[i] = true
						checkComplete(ctx)
					},
				),
			)
		}

		return func() {
			for _, s := range subs {
				if s != nil {
					s.Unsubscribe()
				}
			}
		}
	})
}

// CombineLatest subscribes to every source and, once every source has
// produced at least one value, emits a []T tuple of the latest value from
// each source whenever any one of them emits. It completes once every
// source has completed.
func CombineLatest[T any](sources ...Observable[T]) Observable[[]T] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[[]T]) Teardown {
		var mu sync.Mutex
		latest := make([]T, len(sources))
		hasValue := make([]bool, len(sources))
		completed := make([]bool, len(sources))
		remaining := len(sources)
		subs := make([]Subscription, len(sources))

		allHaveValue := func() bool {
			for _, ok := range hasValue {
				if !ok {
					return false
				}
			}
			return true
		}

		for i, source := range sources {
			i := i
			subs[i] = source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						defer mu.Unlock()
						latest[i] = value
						hasValue[i] = true

						if allHaveValue() {
							tuple := append([]T{}, latest...)
							destination.NextWithContext(ctx, tuple)
						}
					},
					func(ctx context.Context, err error) {
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						defer mu.Unlock()
						if !completed[i] {
							completed[i] = true
							remaining--
						}
						if remaining == 0 {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)
		}

		if len(sources) == 0 {
			destination.CompleteWithContext(ctx)
		}

		return func() {
			for _, s := range subs {
				if s != nil {
					s.Unsubscribe()
				}
			}
		}
	})
}
