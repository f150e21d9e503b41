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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Serialize converts each emitted value into its JSON string representation.
func Serialize[T any]() func(Observable[T]) Observable[string] {
	return func(source Observable[T]) Observable[string] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[string]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, v T) {
						b, err := json.Marshal(v)
						if err != nil {
							destination.ErrorWithContext(ctx, err)
							return
						}

						destination.NextWithContext(ctx, string(b))
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Unserialize parses each emitted JSON string into the target type T.
func Unserialize[T any]() func(Observable[string]) Observable[T] {
	return func(source Observable[string]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, s string) {
						var out T
						if err := json.Unmarshal([]byte(s), &out); err != nil {
							destination.ErrorWithContext(ctx, err)
							return
						}

						destination.NextWithContext(ctx, out)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Validate applies validator to every emitted value, forwarding it unchanged
// on success, or erroring the stream (with whatever context validator
// returns, e.g. one carrying field-level diagnostics) on the first failure.
func Validate[T any](validator func(ctx context.Context, item T) (context.Context, error)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, v T) {
						newCtx, err := validator(ctx, v)
						if err != nil {
							destination.ErrorWithContext(newCtx, err)
							return
						}

						destination.NextWithContext(newCtx, v)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Dedup removes duplicate payloads based on their SHA-256 content hash,
// forwarding only the first occurrence of each distinct payload.
func Dedup() func(Observable[string]) Observable[string] {
	return func(source Observable[string]) Observable[string] {
		return NewUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[string]) Teardown {
			seen := map[string]struct{}{}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, s string) {
						h := sha256.Sum256([]byte(s))
						key := hex.EncodeToString(h[:])
						if _, ok := seen[key]; ok {
							return
						}

						seen[key] = struct{}{}
						destination.NextWithContext(ctx, s)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}
