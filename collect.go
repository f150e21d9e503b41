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

// Collect blocks until source completes or errors, then returns every value
// it emitted along the way. It exists mainly as a test helper for exercising
// Observable chains synchronously (used throughout operator_math_test.go and
// friends); production code normally stays subscribe-based rather than
// blocking a goroutine on a whole stream.
func Collect[T any](source Observable[T]) ([]T, error) {
	values := []T{}
	var finalErr error

	done := make(chan struct{})

	sub := source.Subscribe(NewObserver(
		func(value T) {
			values = append(values, value)
		},
		func(err error) {
			finalErr = err
			close(done)
		},
		func() {
			close(done)
		},
	))
	defer sub.Unsubscribe()

	<-done

	return values, finalErr
}
