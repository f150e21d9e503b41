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
	"testing"

	"github.com/stretchr/testify/assert"
)

// failTwiceThenSucceed returns a cold Observable that errors on its first two
// subscriptions and emits 1, 2, 3 then completes on every subscription after.
func failTwiceThenSucceed() Observable[int] {
	subscriptions := 0
	return NewObservable(func(destination Observer[int]) Teardown {
		subscriptions++
		if subscriptions <= 2 {
			destination.Error(assert.AnError)
			return nil
		}
		destination.Next(1)
		destination.Next(2)
		destination.Next(3)
		destination.Complete()
		return nil
	})
}

func TestRetry_resubscribesUntilSuccessWithinBudget(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(failTwiceThenSucceed(), Retry[int](2)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestRetry_forwardsFinalErrorOnceBudgetExhausted(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(Pipe1(failTwiceThenSucceed(), Retry[int](1)))
	is.ErrorIs(err, assert.AnError)
}

func countingCompleter() Observable[int] {
	calls := 0
	return NewObservable(func(destination Observer[int]) Teardown {
		calls++
		destination.Next(calls)
		destination.Complete()
		return nil
	})
}

func TestRepeat_resubscribesOnCompleteUpToCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(countingCompleter(), Repeat[int](2)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestRetryWhen_retriesWhenNotifierEmits(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := failTwiceThenSucceed()
	retried := Pipe1(source, RetryWhen[int](func(errs Observable[error]) Observable[struct{}] {
		return Map(func(error) struct{} { return struct{}{} })(errs)
	}))

	values, err := Collect(retried)
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestRepeatWhen_repeatsWhenNotifierEmits(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := countingCompleter()
	limited := Pipe1(
		Pipe1(source, RepeatWhen[int](func(completions Observable[struct{}]) Observable[struct{}] {
			return completions
		})),
		Take[int](2),
	)

	values, err := Collect(limited)
	is.NoError(err)
	is.Equal([]int{1, 2}, values)
}
