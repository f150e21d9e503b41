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

// Retry re-subscribes to source up to count additional times (after the
// first, failed attempt) whenever it errors, forwarding the final error
// only once the retry budget is exhausted. count < 0 means retry forever.
// Re-subscription swaps the single live upstream Subscription behind a
// SubscriptionArbiter-style guarded pointer.
func Retry[T any](count int) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			var current Subscription
			unsubscribed := false
			attempt := 0

			var subscribeOnce func()
			subscribeOnce = func() {
				mu.Lock()
				if unsubscribed {
					mu.Unlock()
					return
				}
				mu.Unlock()

				sub := source.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						destination.NextWithContext,
						func(ctx context.Context, err error) {
							attempt++
							if count >= 0 && attempt > count {
								destination.ErrorWithContext(ctx, err)
								return
							}
							subscribeOnce()
						},
						destination.CompleteWithContext,
					),
				)

				mu.Lock()
				current = sub
				mu.Unlock()
			}

			subscribeOnce()

			return func() {
				mu.Lock()
				unsubscribed = true
				sub := current
				mu.Unlock()

				if sub != nil {
					sub.Unsubscribe()
				}
			}
		})
	}
}

// Repeat re-subscribes to source up to count additional times (after the
// first, successful completion) whenever it completes, forwarding a single
// Complete only once the repeat budget is exhausted. count < 0 means repeat
// forever.
func Repeat[T any](count int) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			var mu sync.Mutex
			var current Subscription
			unsubscribed := false
			attempt := 0

			var subscribeOnce func()
			subscribeOnce = func() {
				mu.Lock()
				if unsubscribed {
					mu.Unlock()
					return
				}
				mu.Unlock()

				sub := source.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						destination.NextWithContext,
						destination.ErrorWithContext,
						func(ctx context.Context) {
							attempt++
							if count >= 0 && attempt > count {
								destination.CompleteWithContext(ctx)
								return
							}
							subscribeOnce()
						},
					),
				)

				mu.Lock()
				current = sub
				mu.Unlock()
			}

			subscribeOnce()

			return func() {
				mu.Lock()
				unsubscribed = true
				sub := current
				mu.Unlock()

				if sub != nil {
					sub.Unsubscribe()
				}
			}
		})
	}
}

// RetryWhen re-subscribes to source every time it errors, but defers the
// decision of *when* (or *whether*) to retry to notifier: each error is fed
// into notifier as a value, and a Next emitted by the Observable notifier
// returns for that error triggers another subscription attempt. If notifier
// itself errors or completes, that notification is forwarded downstream
// instead and no further retry happens.
func RetryWhen[T any](notifier func(errs Observable[error]) Observable[struct{}]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			errSubject := NewPublishSubject[error]()
			notifierObservable := notifier(errSubject.AsObservable())

			var mu sync.Mutex
			var current Subscription
			unsubscribed := false

			var subscribeOnce func()

			notifierSub := notifierObservable.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, _ struct{}) {
						subscribeOnce()
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			subscribeOnce = func() {
				mu.Lock()
				if unsubscribed {
					mu.Unlock()
					return
				}
				mu.Unlock()

				sub := source.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						destination.NextWithContext,
						func(ctx context.Context, err error) {
							errSubject.NextWithContext(ctx, err)
						},
						destination.CompleteWithContext,
					),
				)

				mu.Lock()
				current = sub
				mu.Unlock()
			}

			subscribeOnce()

			return func() {
				mu.Lock()
				unsubscribed = true
				sub := current
				mu.Unlock()

				if sub != nil {
					sub.Unsubscribe()
				}
				notifierSub.Unsubscribe()
			}
		})
	}
}

// RepeatWhen re-subscribes to source every time it completes, deferring the
// decision of when (or whether) to repeat to notifier, symmetrically to
// RetryWhen.
func RepeatWhen[T any](notifier func(completions Observable[struct{}]) Observable[struct{}]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
			completeSubject := NewPublishSubject[struct{}]()
			notifierObservable := notifier(completeSubject.AsObservable())

			var mu sync.Mutex
			var current Subscription
			unsubscribed := false

			var subscribeOnce func()

			notifierSub := notifierObservable.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, _ struct{}) {
						subscribeOnce()
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			subscribeOnce = func() {
				mu.Lock()
				if unsubscribed {
					mu.Unlock()
					return
				}
				mu.Unlock()

				sub := source.SubscribeWithContext(
					ctx,
					NewObserverWithContext(
						destination.NextWithContext,
						destination.ErrorWithContext,
						func(ctx context.Context) {
							completeSubject.NextWithContext(ctx, struct{}{})
						},
					),
				)

				mu.Lock()
				current = sub
				mu.Unlock()
			}

			subscribeOnce()

			return func() {
				mu.Lock()
				unsubscribed = true
				sub := current
				mu.Unlock()

				if sub != nil {
					sub.Unsubscribe()
				}
				notifierSub.Unsubscribe()
			}
		})
	}
}
