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

// GroupedObservable is the per-key Observable emitted by GroupBy. Key
// identifies which group this stream belongs to.
type GroupedObservable[K comparable, T any] interface {
	Observable[T]

	Key() K
}

type groupedObservableImpl[K comparable, V any] struct {
	key  K
	subj Subject[V]

	mu             sync.Mutex
	everSubscribed bool
}

func (g *groupedObservableImpl[K, V]) Key() K {
	return g.key
}

func (g *groupedObservableImpl[K, V]) markSubscribed() {
	g.mu.Lock()
	g.everSubscribed = true
	g.mu.Unlock()
}

// abandoned reports whether this group once had a subscriber and currently
// has none, i.e. its sole (or every) downstream cancelled.
func (g *groupedObservableImpl[K, V]) abandoned() bool {
	g.mu.Lock()
	had := g.everSubscribed
	g.mu.Unlock()
	return had && !g.subj.HasObserver()
}

func (g *groupedObservableImpl[K, V]) Subscribe(destination Observer[V]) Subscription {
	g.markSubscribed()
	return g.subj.Subscribe(destination)
}

func (g *groupedObservableImpl[K, V]) SubscribeWithContext(ctx context.Context, destination Observer[V]) Subscription {
	g.markSubscribed()
	return g.subj.SubscribeWithContext(ctx, destination)
}

// GroupBy partitions source into one GroupedObservable per distinct key,
// computed by keySelector, projecting each value through valueSelector
// before it reaches its group. Every GroupedObservable is itself multicast:
// bufferSize <= 0 backs it with a plain PublishSubject (values are dropped
// when the group currently has no subscriber); bufferSize > 0 backs it with
// a ReplaySubject of that capacity instead, so a subscriber joining the
// group late still sees its most recent values (§4.8).
//
// If a group's subscriber count drops to zero after having had at least
// one, the group is removed: a later value for that same key opens a fresh
// GroupedObservable rather than broadcasting into an abandoned one.
//
// When delayError is false, an upstream error immediately errors every open
// group and the outer Observable. When true, every open group is instead
// completed cleanly and only the outer Observable receives the error, so a
// downstream already consuming a group isn't torn down by a failure
// upstream of the partitioning.
func GroupBy[T any, K comparable, V any](keySelector func(value T) K, valueSelector func(value T) V, bufferSize int, delayError bool) func(Observable[T]) Observable[GroupedObservable[K, V]] {
	return func(source Observable[T]) Observable[GroupedObservable[K, V]] {
		return NewObservableWithContext(func(ctx context.Context, destination Observer[GroupedObservable[K, V]]) Teardown {
			var mu sync.Mutex
			groups := map[K]*groupedObservableImpl[K, V]{}

			newSubject := func() Subject[V] {
				if bufferSize > 0 {
					return NewReplaySubject[V](bufferSize)
				}
				return NewPublishSubject[V]()
			}

			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						key := keySelector(value)

						mu.Lock()
						group, ok := groups[key]
						if ok && group.abandoned() {
							delete(groups, key)
							ok = false
						}
						isNew := !ok
						if isNew {
							group = &groupedObservableImpl[K, V]{key: key, subj: newSubject()}
							groups[key] = group
						}
						mu.Unlock()

						if isNew {
							destination.NextWithContext(ctx, group)
						}

						group.subj.NextWithContext(ctx, valueSelector(value))
					},
					func(ctx context.Context, err error) {
						mu.Lock()
						defer mu.Unlock()
						for _, g := range groups {
							if delayError {
								g.subj.CompleteWithContext(ctx)
							} else {
								g.subj.ErrorWithContext(ctx, err)
							}
						}
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						mu.Lock()
						defer mu.Unlock()
						for _, g := range groups {
							g.subj.CompleteWithContext(ctx)
						}
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}
