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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_interleavesAllSourcesUntilAllComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Merge(Just(1, 2), Just(3, 4)))
	is.NoError(err)

	sort.Ints(values)
	is.Equal([]int{1, 2, 3, 4}, values)
}

func TestMerge_propagatesFirstError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(Merge(Just(1), Throw[int](assert.AnError)))
	is.ErrorIs(err, assert.AnError)
}

func TestFlatMap_flattensProjectedObservables(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2}), FlatMap(func(v int) Observable[int] {
		return Just(v, v*10)
	})))
	is.NoError(err)

	sort.Ints(values)
	is.Equal([]int{1, 2, 10, 20}, values)
}

func TestConcatMap_preservesSourceOrder(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), ConcatMap(func(v int) Observable[int] {
		return Just(v, v*10)
	})))
	is.NoError(err)
	is.Equal([]int{1, 10, 2, 20, 3, 30}, values)
}

func TestAmb_onlyEmitsFromFirstSourceToEmit(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Amb(Just(1, 2, 3), Just(4, 5, 6)))
	is.NoError(err)
	is.NotEmpty(values)

	// every value must come from the same source, not interleaved
	fromFirst := values[0] < 4
	for _, v := range values {
		is.Equal(fromFirst, v < 4)
	}
}

func TestZip_pairsValuesByIndex(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Zip(Just(1, 2, 3), Just(10, 20)))
	is.NoError(err)
	is.Equal([][]int{{1, 10}, {2, 20}}, values)
}

func TestCombineLatest_emitsOnEveryUpdateOnceAllHaveValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(CombineLatest(Just(1), Just(2, 3)))
	is.NoError(err)
	is.NotEmpty(values)
	last := values[len(values)-1]
	is.Equal([]int{1, 3}, last)
}
