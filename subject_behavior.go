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
	"sync/atomic"

	"github.com/samber/lo"
)

var _ Subject[int] = (*behaviorSubjectImpl[int])(nil)

// BehaviorSubject is a Subject that replays its most recent value (or a
// seed, if no value has ever been pushed) to every new subscriber before
// relaying anything further. Grounded on subject_publish.go's fanout
// machinery, extended with a guarded "current value" slot the way the
// teacher's PublishSubject guards its terminal status with s.status.
func NewBehaviorSubject[T any](seed T) Subject[T] {
	return &behaviorSubjectImpl[T]{
		status: KindNext,
		value:  seed,

		observers:     sync.Map{},
		observerIndex: 0,

		err: lo.Tuple2[context.Context, error]{},
	}
}

type behaviorSubjectImpl[T any] struct {
	mu     sync.RWMutex
	status Kind
	value  T

	observers     sync.Map
	observerIndex uint32

	err lo.Tuple2[context.Context, error]
}

// Value returns the most recently pushed value (or the seed, if none has
// been pushed yet).
func (s *behaviorSubjectImpl[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *behaviorSubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *behaviorSubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.RLock()
	status := s.status
	value := s.value
	subscription.NextWithContext(subscriberCtx, value)
	s.mu.RUnlock()

	switch status {
	case KindNext:
		// fallthrough
	case KindError:
		subscription.ErrorWithContext(s.err.A, s.err.B)
		return subscription
	case KindComplete:
		subscription.CompleteWithContext(subscriberCtx)
		return subscription
	}

	index := atomic.AddUint32(&s.observerIndex, 1) - 1
	s.observers.Store(index, subscription)

	subscription.Add(func() {
		s.observers.Delete(index)
	})

	return subscription
}

func (s *behaviorSubjectImpl[T]) unsubscribeAll() {
	s.observers.Range(func(key, _ any) bool {
		s.observers.Delete(key)
		return true
	})
}

func (s *behaviorSubjectImpl[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *behaviorSubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()
	if s.status != KindNext {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(value))
		return
	}
	s.value = value
	s.mu.Unlock()

	s.broadcastNext(ctx, value)
}

func (s *behaviorSubjectImpl[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *behaviorSubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
	s.mu.Lock()
	if s.status != KindNext {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationError[T](err))
		return
	}
	s.err = lo.T2(ctx, err)
	s.status = KindError
	s.mu.Unlock()

	s.broadcastError(ctx, err)
	s.unsubscribeAll()
}

func (s *behaviorSubjectImpl[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *behaviorSubjectImpl[T]) CompleteWithContext(ctx context.Context) {
	s.mu.Lock()
	if s.status != KindNext {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationComplete[T]())
		return
	}
	s.status = KindComplete
	s.mu.Unlock()

	s.broadcastComplete(ctx)
	s.unsubscribeAll()
}

func (s *behaviorSubjectImpl[T]) HasObserver() (has bool) {
	s.observers.Range(func(key, value any) bool {
		has = true
		return false
	})
	return has
}

func (s *behaviorSubjectImpl[T]) CountObservers() int {
	count := 0
	s.observers.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

func (s *behaviorSubjectImpl[T]) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status != KindNext
}

func (s *behaviorSubjectImpl[T]) HasThrown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == KindError
}

func (s *behaviorSubjectImpl[T]) IsCompleted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == KindComplete
}

func (s *behaviorSubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *behaviorSubjectImpl[T]) AsObserver() Observer[T] {
	return s
}

func (s *behaviorSubjectImpl[T]) broadcastNext(ctx context.Context, value T) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).NextWithContext(ctx, value) //nolint:errcheck,forcetypeassert
		return true
	})
}

func (s *behaviorSubjectImpl[T]) broadcastError(ctx context.Context, err error) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).ErrorWithContext(ctx, err) //nolint:errcheck,forcetypeassert
		return true
	})
}

func (s *behaviorSubjectImpl[T]) broadcastComplete(ctx context.Context) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).CompleteWithContext(ctx) //nolint:errcheck,forcetypeassert
		return true
	})
}
