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
	"time"

	"github.com/samber/lo"
)

// replayedValue pairs a buffered value with the scheduler time it was
// recorded at, so time-bounded ReplaySubjects can evict stale entries.
type replayedValue[T any] struct {
	value T
	at    time.Duration
}

var _ Subject[int] = (*replaySubjectImpl[int])(nil)

// NewReplaySubject returns a Subject that records up to bufferSize values
// (0 means unbounded) and replays them to every new subscriber before
// relaying anything further, mirroring subject_publish.go's fanout with a
// bounded ring in front of it.
func NewReplaySubject[T any](bufferSize int) Subject[T] {
	return NewReplaySubjectWithWindow[T](bufferSize, 0, NewGoroutineScheduler())
}

// NewReplaySubjectWithWindow returns a ReplaySubject that additionally
// drops buffered values older than windowTime (0 means no time bound),
// measured against scheduler's clock.
func NewReplaySubjectWithWindow[T any](bufferSize int, windowTime time.Duration, scheduler Scheduler) Subject[T] {
	return &replaySubjectImpl[T]{
		status:     KindNext,
		bufferSize: bufferSize,
		windowTime: windowTime,
		scheduler:  scheduler,

		observers:     sync.Map{},
		observerIndex: 0,

		err: lo.Tuple2[context.Context, error]{},
	}
}

type replaySubjectImpl[T any] struct {
	mu         sync.Mutex
	status     Kind
	buffer     []replayedValue[T]
	bufferSize int
	windowTime time.Duration
	scheduler  Scheduler

	observers     sync.Map
	observerIndex uint32

	err lo.Tuple2[context.Context, error]
}

func (s *replaySubjectImpl[T]) trim() {
	now := s.scheduler.Now()

	if s.windowTime > 0 {
		cutoff := now - s.windowTime
		i := 0
		for i < len(s.buffer) && s.buffer[i].at < cutoff {
			i++
		}
		s.buffer = s.buffer[i:]
	}

	if s.bufferSize > 0 && len(s.buffer) > s.bufferSize {
		s.buffer = s.buffer[len(s.buffer)-s.bufferSize:]
	}
}

func (s *replaySubjectImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

func (s *replaySubjectImpl[T]) SubscribeWithContext(subscriberCtx context.Context, destination Observer[T]) Subscription {
	subscription := NewSubscriber(destination)

	s.mu.Lock()
	s.trim()
	status := s.status
	buffered := append([]replayedValue[T]{}, s.buffer...)
	s.mu.Unlock()

	for _, rv := range buffered {
		subscription.NextWithContext(subscriberCtx, rv.value)
	}

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

func (s *replaySubjectImpl[T]) unsubscribeAll() {
	s.observers.Range(func(key, _ any) bool {
		s.observers.Delete(key)
		return true
	})
}

func (s *replaySubjectImpl[T]) Next(value T) {
	s.NextWithContext(context.Background(), value)
}

func (s *replaySubjectImpl[T]) NextWithContext(ctx context.Context, value T) {
	s.mu.Lock()
	if s.status != KindNext {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(value))
		return
	}
	s.buffer = append(s.buffer, replayedValue[T]{value: value, at: s.scheduler.Now()})
	s.trim()
	s.mu.Unlock()

	s.broadcastNext(ctx, value)
}

func (s *replaySubjectImpl[T]) Error(err error) {
	s.ErrorWithContext(context.Background(), err)
}

func (s *replaySubjectImpl[T]) ErrorWithContext(ctx context.Context, err error) {
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

func (s *replaySubjectImpl[T]) Complete() {
	s.CompleteWithContext(context.Background())
}

func (s *replaySubjectImpl[T]) CompleteWithContext(ctx context.Context) {
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

func (s *replaySubjectImpl[T]) HasObserver() (has bool) {
	s.observers.Range(func(key, value any) bool {
		has = true
		return false
	})
	return has
}

func (s *replaySubjectImpl[T]) CountObservers() int {
	count := 0
	s.observers.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

func (s *replaySubjectImpl[T]) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != KindNext
}

func (s *replaySubjectImpl[T]) HasThrown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == KindError
}

func (s *replaySubjectImpl[T]) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == KindComplete
}

func (s *replaySubjectImpl[T]) AsObservable() Observable[T] {
	return s
}

func (s *replaySubjectImpl[T]) AsObserver() Observer[T] {
	return s
}

func (s *replaySubjectImpl[T]) broadcastNext(ctx context.Context, value T) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).NextWithContext(ctx, value) //nolint:errcheck,forcetypeassert
		return true
	})
}

func (s *replaySubjectImpl[T]) broadcastError(ctx context.Context, err error) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).ErrorWithContext(ctx, err) //nolint:errcheck,forcetypeassert
		return true
	})
}

func (s *replaySubjectImpl[T]) broadcastComplete(ctx context.Context) {
	s.observers.Range(func(_, observer any) bool {
		observer.(Observer[T]).CompleteWithContext(ctx) //nolint:errcheck,forcetypeassert
		return true
	})
}
