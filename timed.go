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
	"time"
)

// Timed pairs an emitted value with the scheduler time it was observed at,
// produced by the Timestamp operator.
type Timed[T any] struct {
	Value T
	At    time.Duration
}

// Timestamp wraps every value emitted by source into a Timed, stamped with
// scheduler's current time at the moment it passes through the operator.
func Timestamp[T any](scheduler Scheduler) func(Observable[T]) Observable[Timed[T]] {
	return func(source Observable[T]) Observable[Timed[T]] {
		return NewUnsafeObservableWithContext(func(ctx context.Context, destination Observer[Timed[T]]) Teardown {
			sub := source.SubscribeWithContext(
				ctx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						destination.NextWithContext(ctx, Timed[T]{Value: value, At: scheduler.Now()})
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}
