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

// Connectable wraps a cold Observable that, once Connect is called, shares a
// single upstream subscription among every subscriber attached before or
// after that call (§4.9's publish/connect multicast).
type Connectable[T any] interface {
	Observable[T]

	// Connect subscribes to the underlying source exactly once and starts
	// forwarding its notifications to every current and future subscriber
	// of this Connectable. Calling Connect more than once before the
	// returned Subscription is unsubscribed is a no-op that returns the
	// existing Subscription.
	Connect() Subscription
}

var _ Connectable[int] = (*connectableImpl[int])(nil)

type connectableImpl[T any] struct {
	source Observable[T]
	subj   Subject[T]

	mu        sync.Mutex
	connected bool
	upstream  Subscription
}

// Publish returns a Connectable that multicasts source through an internal
// PublishSubject: subscribers attached before Connect see nothing until
// Connect is called and the shared upstream subscription starts flowing.
func Publish[T any](source Observable[T]) Connectable[T] {
	return &connectableImpl[T]{
		source: source,
		subj:   NewPublishSubject[T](),
	}
}

// PublishReplay is Publish backed by a ReplaySubject, so subscribers that
// attach after Connect still see up to bufferSize previously emitted values.
func PublishReplay[T any](source Observable[T], bufferSize int) Connectable[T] {
	return &connectableImpl[T]{
		source: source,
		subj:   NewReplaySubject[T](bufferSize),
	}
}

// PublishBehavior is Publish backed by a BehaviorSubject: every subscriber
// immediately receives the most recent value (or seed).
func PublishBehavior[T any](source Observable[T], seed T) Connectable[T] {
	return &connectableImpl[T]{
		source: source,
		subj:   NewBehaviorSubject[T](seed),
	}
}

func (c *connectableImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return c.subj.Subscribe(destination)
}

func (c *connectableImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	return c.subj.SubscribeWithContext(ctx, destination)
}

func (c *connectableImpl[T]) Connect() Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return c.upstream
	}

	c.connected = true
	c.upstream = c.source.Subscribe(c.subj.AsObserver())
	c.upstream.Add(func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	})

	return c.upstream
}

// RefCount returns an Observable that automatically calls Connect when its
// subscriber count transitions from 0 to 1, and automatically unsubscribes
// from the shared upstream when it transitions back from 1 to 0 — the
// reference-counted variant of Publish/Connect (§4.9).
func RefCount[T any](source Connectable[T]) Observable[T] {
	rc := &refCountImpl[T]{source: source}
	return rc
}

type refCountImpl[T any] struct {
	source Connectable[T]

	mu    sync.Mutex
	count int
	conn  Subscription
}

func (r *refCountImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return r.SubscribeWithContext(context.Background(), destination)
}

func (r *refCountImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	sub := r.source.SubscribeWithContext(ctx, destination)

	r.mu.Lock()
	r.count++
	if r.count == 1 {
		r.conn = r.source.Connect()
	}
	r.mu.Unlock()

	sub.Add(func() {
		r.mu.Lock()
		r.count--
		if r.count == 0 && r.conn != nil {
			r.conn.Unsubscribe()
			r.conn = nil
		}
		r.mu.Unlock()
	})

	return sub
}

// Share is RefCount(Publish(source)): the common case of multicasting a
// cold Observable to however many subscribers are concurrently attached,
// torn down automatically when the last one leaves.
func Share[T any](source Observable[T]) Observable[T] {
	return RefCount[T](Publish(source))
}
