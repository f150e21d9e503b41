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

// Flow is the backpressured stream flavor (SB in the design notes): a cold
// producer that emits at most as many values as its downstream has
// requested. It shares the Notification vocabulary and Subscriber-style
// Observer idiom of Observable (observable.go), generalized with an
// explicit demand protocol (§3, §4.1).
package ro

import (
	"sync"
)

// FlowSubscription is the handle a Flow hands its FlowObserver via
// OnSubscribe. Request(n) is cumulative and saturating; Cancel is
// idempotent (§4.1).
type FlowSubscription interface {
	// Request adds n to outstanding demand. n <= 0 synthesizes
	// ErrIllegalArgument and cancels upstream (§4.1).
	Request(n int64)
	// Cancel idempotently releases upstream resources. No further
	// notifications reach the associated FlowObserver afterward.
	Cancel()
}

// FlowObserver is the sink for a Flow: OnSubscribe is called exactly once,
// before any OnNext/OnError/OnComplete (§3).
type FlowObserver[T any] interface {
	OnSubscribe(subscription FlowSubscription)
	OnNext(value T)
	OnError(err error)
	OnComplete()
}

// Flow is a cold, backpressured producer of a typed sequence.
type Flow[T any] interface {
	Subscribe(observer FlowObserver[T])
}

// FlowSubscribeFunc is the shape of a Flow's source function.
type FlowSubscribeFunc[T any] func(observer FlowObserver[T])

var _ Flow[int] = (*flowImpl[int])(nil)

type flowImpl[T any] struct {
	subscribeFunc FlowSubscribeFunc[T]
}

// NewFlow creates a cold Flow from a subscribe function. The function must
// call observer.OnSubscribe exactly once, synchronously, before calling any
// other observer method.
func NewFlow[T any](fn FlowSubscribeFunc[T]) Flow[T] {
	return &flowImpl[T]{subscribeFunc: fn}
}

func (f *flowImpl[T]) Subscribe(observer FlowObserver[T]) {
	f.subscribeFunc(observer)
}

// flowSubscriber adapts a FlowObserver plus a producer callback into a
// FlowSubscription, funneling demand changes into a requestCounter and
// guarding terminal delivery so at most one terminal notification ever
// reaches the observer (invariant 1, §3).
type flowSubscriber[T any] struct {
	mu        sync.Mutex
	observer  FlowObserver[T]
	requested requestCounter
	cancelled bool
	terminal  bool
	onCancel  func()
	onRequest func(n int64)
}

// NewFlowSubscriber wires observer to a FlowSubscription backed by
// onRequest (called whenever Request grows outstanding demand) and
// onCancel (called once, the first time Cancel is invoked). It calls
// observer.OnSubscribe before returning.
func NewFlowSubscriber[T any](observer FlowObserver[T], onRequest func(n int64), onCancel func()) *flowSubscriber[T] {
	s := &flowSubscriber[T]{
		observer:  observer,
		onCancel:  onCancel,
		onRequest: onRequest,
	}
	observer.OnSubscribe(s)
	return s
}

func (s *flowSubscriber[T]) Request(n int64) {
	if n <= 0 {
		s.emitError(ErrIllegalArgument)
		s.Cancel()
		return
	}

	s.mu.Lock()
	cancelled := s.cancelled
	s.mu.Unlock()
	if cancelled {
		return
	}

	s.requested.add(n)
	if s.onRequest != nil {
		s.onRequest(n)
	}
}

func (s *flowSubscriber[T]) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.requested.cancel()
	s.mu.Unlock()

	if s.onCancel != nil {
		s.onCancel()
	}
}

// tryEmit delivers value downstream if not cancelled/terminated, consuming
// one unit of outstanding demand. It returns false if the value could not
// be delivered (cancelled, terminated, or no demand available) so the
// caller can treat that as backpressure violation or buffer it.
func (s *flowSubscriber[T]) tryEmit(value T) bool {
	s.mu.Lock()
	if s.cancelled || s.terminal {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	if s.requested.get() <= 0 {
		return false
	}

	s.requested.produced(1)
	s.observer.OnNext(value)
	return true
}

func (s *flowSubscriber[T]) emitError(err error) {
	s.mu.Lock()
	if s.cancelled || s.terminal {
		s.mu.Unlock()
		return
	}
	s.terminal = true
	s.mu.Unlock()

	s.observer.OnError(err)
}

func (s *flowSubscriber[T]) emitComplete() {
	s.mu.Lock()
	if s.cancelled || s.terminal {
		s.mu.Unlock()
		return
	}
	s.terminal = true
	s.mu.Unlock()

	s.observer.OnComplete()
}

func (s *flowSubscriber[T]) isActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cancelled && !s.terminal
}
