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

import "context"

// Observable is the non-backpressured stream flavor (SN in the design
// notes): a cold producer of a typed sequence of Next/Error/Complete
// notifications that pushes freely, with no demand protocol. Subscribe
// creates a brand new, private operator chain state for every call — an
// Observable is immutable and safely re-subscribable.
type Observable[T any] interface {
	// Subscribe starts a new execution of the Observable against
	// destination, using context.Background() for every callback. It
	// returns a Subscription that can be used to cancel early.
	Subscribe(destination Observer[T]) Subscription

	// SubscribeWithContext starts a new execution of the Observable
	// against destination, threading ctx through every callback invoked
	// along the chain.
	SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription
}

// Subject is both an Observable and an Observer: it can be subscribed to,
// and it can be fed values/errors/completion to broadcast to its current
// subscribers (see subject_publish.go, subject_replay.go, subject_behavior.go).
type Subject[T any] interface {
	Observable[T]
	Observer[T]

	// AsObservable erases the Observer half of the Subject, useful when a
	// Subject must be handed to a consumer that should not be able to feed
	// it values directly.
	AsObservable() Observable[T]
	// AsObserver erases the Observable half of the Subject.
	AsObserver() Observer[T]

	// HasObserver reports whether at least one subscriber is currently
	// attached.
	HasObserver() bool
	// CountObservers reports the number of subscribers currently attached.
	CountObservers() int
}

// SubscribeFunc is the shape of an Observable's source function: given a
// destination Observer, start producing notifications (synchronously or
// asynchronously) and return a Teardown that stops production early. A nil
// Teardown is allowed when there is nothing to clean up.
type SubscribeFunc[T any] func(destination Observer[T]) Teardown

// SubscribeFuncWithContext is the context-threading variant of SubscribeFunc.
type SubscribeFuncWithContext[T any] func(ctx context.Context, destination Observer[T]) Teardown

var _ Observable[int] = (*observableImpl[int])(nil)

type observableImpl[T any] struct {
	mode          ConcurrencyMode
	subscribeFunc SubscribeFuncWithContext[T]
}

// NewObservable creates a cold Observable from a subscribe function. The
// destination Observer is wrapped with ConcurrencyModeSafe, so concurrent
// producers calling destination.Next/Error/Complete are serialized.
func NewObservable[T any](fn SubscribeFunc[T]) Observable[T] {
	return NewObservableWithContext(func(_ context.Context, destination Observer[T]) Teardown {
		return fn(destination)
	})
}

// NewObservableWithContext is the context-threading variant of NewObservable.
func NewObservableWithContext[T any](fn SubscribeFuncWithContext[T]) Observable[T] {
	return newObservableWithMode(ConcurrencyModeSafe, fn)
}

// NewUnsafeObservable creates a cold Observable whose destination Observer
// is wrapped with ConcurrencyModeUnsafe (no synchronization). Use only when
// the subscribe function is known to call destination from a single
// goroutine, e.g. most of the pipeable operators in this package, which
// forward exactly one upstream subscription.
func NewUnsafeObservable[T any](fn SubscribeFunc[T]) Observable[T] {
	return NewUnsafeObservableWithContext(func(_ context.Context, destination Observer[T]) Teardown {
		return fn(destination)
	})
}

// NewUnsafeObservableWithContext is the context-threading variant of
// NewUnsafeObservable.
func NewUnsafeObservableWithContext[T any](fn SubscribeFuncWithContext[T]) Observable[T] {
	return newObservableWithMode(ConcurrencyModeUnsafe, fn)
}

// NewEventuallySafeObservable creates a cold Observable whose destination
// Observer is wrapped with ConcurrencyModeEventuallySafe: concurrent Next
// calls that cannot immediately acquire the lock are dropped rather than
// blocking the producer.
func NewEventuallySafeObservable[T any](fn SubscribeFunc[T]) Observable[T] {
	return NewEventuallySafeObservableWithContext(func(_ context.Context, destination Observer[T]) Teardown {
		return fn(destination)
	})
}

// NewEventuallySafeObservableWithContext is the context-threading variant of
// NewEventuallySafeObservable.
func NewEventuallySafeObservableWithContext[T any](fn SubscribeFuncWithContext[T]) Observable[T] {
	return newObservableWithMode(ConcurrencyModeEventuallySafe, fn)
}

// NewSingleProducerObservable creates a cold Observable whose destination
// Observer is wrapped with ConcurrencyModeSingleProducer: the lockless fast
// path, valid only when the subscribe function guarantees a single
// producer goroutine.
func NewSingleProducerObservable[T any](fn SubscribeFunc[T]) Observable[T] {
	return NewSingleProducerObservableWithContext(func(_ context.Context, destination Observer[T]) Teardown {
		return fn(destination)
	})
}

// NewSingleProducerObservableWithContext is the context-threading variant of
// NewSingleProducerObservable.
func NewSingleProducerObservableWithContext[T any](fn SubscribeFuncWithContext[T]) Observable[T] {
	return newObservableWithMode(ConcurrencyModeSingleProducer, fn)
}

func newObservableWithMode[T any](mode ConcurrencyMode, fn SubscribeFuncWithContext[T]) Observable[T] {
	return &observableImpl[T]{
		mode:          mode,
		subscribeFunc: fn,
	}
}

// Subscribe implements Observable.
func (o *observableImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return o.SubscribeWithContext(context.Background(), destination)
}

// SubscribeWithContext implements Observable. It wraps destination in a
// Subscriber (providing Unsubscribe/Add capability), invokes the source's
// subscribe function, and registers the returned Teardown against that
// Subscriber so cancellation always reaches the source. No exception
// wrapping is performed: a panic escaping the subscribe function itself
// (as opposed to a callback invoked through the Subscriber) is fatal, per
// §4.6.
func (o *observableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	subscriber := NewSubscriberWithConcurrencyMode(destination, o.mode)

	teardown := o.subscribeFunc(ctx, subscriber)
	subscriber.Add(teardown)

	return subscriber
}

// Lift returns an Observable whose subscription wraps destination through
// operatorFactory before delegating to source — the generic form of
// §4.6's lift/subscribe pipeline. Most operators in this package build their
// own closure instead (the established idiom in this codebase), but Lift is
// available for operators expressed purely as an Observer transformation.
func Lift[T, R any](source Observable[T], operatorFactory func(destination Observer[R]) Observer[T]) Observable[R] {
	return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[R]) Teardown {
		wrapped := operatorFactory(destination)
		sub := source.SubscribeWithContext(ctx, wrapped)
		return sub.Unsubscribe
	})
}
