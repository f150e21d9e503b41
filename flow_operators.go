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

// FlowMap applies project to every value emitted by source, preserving
// demand one-for-one (one upstream value consumes exactly one unit of
// requested downstream demand).
func FlowMap[T, R any](project func(value T) R) func(Flow[T]) Flow[R] {
	return func(source Flow[T]) Flow[R] {
		return NewFlow(func(observer FlowObserver[R]) {
			source.Subscribe(flowMapObserver[T, R]{
				downstream: observer,
				project:    project,
			})
		})
	}
}

type flowMapObserver[T, R any] struct {
	downstream FlowObserver[R]
	project    func(T) R
}

func (o flowMapObserver[T, R]) OnSubscribe(subscription FlowSubscription) {
	o.downstream.OnSubscribe(subscription)
}
func (o flowMapObserver[T, R]) OnNext(value T)    { o.downstream.OnNext(o.project(value)) }
func (o flowMapObserver[T, R]) OnError(err error) { o.downstream.OnError(err) }
func (o flowMapObserver[T, R]) OnComplete()       { o.downstream.OnComplete() }

// FlowFilter forwards only the values for which predicate returns true.
// Values excluded by predicate do not consume any downstream demand; the
// operator re-requests one unit upstream for each one filtered out so the
// pipeline keeps flowing instead of stalling on partially-consumed demand.
func FlowFilter[T any](predicate func(value T) bool) func(Flow[T]) Flow[T] {
	return func(source Flow[T]) Flow[T] {
		return NewFlow(func(observer FlowObserver[T]) {
			var upstream FlowSubscription

			source.Subscribe(flowFilterObserver[T]{
				downstream: observer,
				predicate:  predicate,
				setUpstream: func(s FlowSubscription) {
					upstream = s
				},
				requestMore: func() {
					if upstream != nil {
						upstream.Request(1)
					}
				},
			})
		})
	}
}

type flowFilterObserver[T any] struct {
	downstream  FlowObserver[T]
	predicate   func(T) bool
	setUpstream func(FlowSubscription)
	requestMore func()
}

func (o flowFilterObserver[T]) OnSubscribe(subscription FlowSubscription) {
	o.setUpstream(subscription)
	o.downstream.OnSubscribe(subscription)
}

func (o flowFilterObserver[T]) OnNext(value T) {
	if o.predicate(value) {
		o.downstream.OnNext(value)
	} else {
		o.requestMore()
	}
}

func (o flowFilterObserver[T]) OnError(err error) { o.downstream.OnError(err) }
func (o flowFilterObserver[T]) OnComplete()       { o.downstream.OnComplete() }
