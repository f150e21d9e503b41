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

func TestGroupBy_partitionsValuesByKey(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	results := map[int][]int{}

	grouped := Pipe1(FromSlice([]int{1, 2, 3, 4, 5, 6}), GroupBy[int, int, int](
		func(v int) int { return v % 2 },
		func(v int) int { return v },
		0, false,
	))

	grouped.Subscribe(NewObserver(
		func(group GroupedObservable[int, int]) {
			key := group.Key()
			group.Subscribe(NewObserver(
				func(v int) { results[key] = append(results[key], v) },
				func(error) {},
				func() {},
			))
		},
		func(error) {},
		func() {},
	))

	is.Equal([]int{1, 3, 5}, results[1])
	is.Equal([]int{2, 4, 6}, results[0])
}

func TestGroupBy_eachGroupKnowsItsOwnKey(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var keys []string

	grouped := Pipe1(FromSlice([]string{"apple", "avocado", "banana"}), GroupBy[string, string, string](
		func(v string) string { return v[:1] },
		func(v string) string { return v },
		0, false,
	))

	grouped.Subscribe(NewObserver(
		func(group GroupedObservable[string, string]) {
			keys = append(keys, group.Key())
			group.Subscribe(NoopObserver[string]())
		},
		func(error) {},
		func() {},
	))

	is.Equal([]string{"a", "b"}, keys)
}

func TestGroupBy_appliesValueSelectorBeforeBroadcasting(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var doubled []int
	grouped := Pipe1(FromSlice([]int{1, 2, 3}), GroupBy[int, int, int](
		func(v int) int { return 0 },
		func(v int) int { return v * 2 },
		0, false,
	))

	grouped.Subscribe(NewObserver(
		func(group GroupedObservable[int, int]) {
			group.Subscribe(NewObserver(func(v int) { doubled = append(doubled, v) }, func(error) {}, func() {}))
		},
		func(error) {},
		func() {},
	))

	is.Equal([]int{2, 4, 6}, doubled)
}

func TestGroupBy_abandonedGroupIsReplacedByAFreshOneForLaterValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := NewPublishSubject[int]()
	var firstGroup, secondGroup GroupedObservable[int, int]
	var firstSub Subscription
	var firstValues, secondValues []int
	opens := 0

	Pipe1(source.AsObservable(), GroupBy[int, int, int](
		func(v int) int { return 0 },
		func(v int) int { return v },
		0, false,
	)).Subscribe(NewObserver(
		func(group GroupedObservable[int, int]) {
			opens++
			if opens == 1 {
				firstGroup = group
				firstSub = group.Subscribe(NewObserver(func(v int) { firstValues = append(firstValues, v) }, func(error) {}, func() {}))
			} else {
				secondGroup = group
				group.Subscribe(NewObserver(func(v int) { secondValues = append(secondValues, v) }, func(error) {}, func() {}))
			}
		},
		func(error) {},
		func() {},
	))

	source.Next(1)
	is.Equal([]int{1}, firstValues)

	// abandon the first group: its only subscriber cancels
	firstSub.Unsubscribe()

	source.Next(2)

	is.Equal(2, opens)
	is.NotSame(firstGroup, secondGroup)
	is.Equal([]int{1}, firstValues)
	is.Equal([]int{2}, secondValues)
}

func TestGroupBy_sizeBoundedReplaysRecentValuesToLateSubscriber(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	grouped := Pipe1(FromSlice([]int{1, 2, 3}), GroupBy[int, int, int](
		func(v int) int { return 0 },
		func(v int) int { return v },
		2, false,
	))

	var group GroupedObservable[int, int]
	grouped.Subscribe(NewObserver(func(g GroupedObservable[int, int]) { group = g }, func(error) {}, func() {}))

	var late []int
	group.Subscribe(NewObserver(func(v int) { late = append(late, v) }, func(error) {}, func() {}))

	is.Equal([]int{2, 3}, late)
}
