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

func TestMap_projectsEveryValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Map(func(v int) int { return v * 10 })))
	is.NoError(err)
	is.Equal([]int{10, 20, 30}, values)
}

func TestFilter_dropsNonMatchingValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 4}), Filter(func(v int) bool { return v%2 == 0 })))
	is.NoError(err)
	is.Equal([]int{2, 4}, values)
}

func TestScan_emitsEveryIntermediateAccumulation(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Scan(func(acc, v int) int { return acc + v }, 0)))
	is.NoError(err)
	is.Equal([]int{1, 3, 6}, values)
}

func TestTake_stopsAfterCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 4, 5}), Take[int](2)))
	is.NoError(err)
	is.Equal([]int{1, 2}, values)
}

func TestTake_zeroCompletesImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Take[int](0)))
	is.NoError(err)
	is.Empty(values)
}

func TestTakeWhile_exclusiveDropsBoundaryValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 1}), TakeWhile(func(v int) bool { return v < 3 }, false)))
	is.NoError(err)
	is.Equal([]int{1, 2}, values)
}

func TestTakeWhile_inclusiveKeepsBoundaryValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 1}), TakeWhile(func(v int) bool { return v < 3 }, true)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestSkip_dropsLeadingValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 4}), Skip[int](2)))
	is.NoError(err)
	is.Equal([]int{3, 4}, values)
}

func TestSkipWhile_dropsUntilPredicateFails(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3, 1}), SkipWhile(func(v int) bool { return v < 3 })))
	is.NoError(err)
	is.Equal([]int{3, 1}, values)
}

func TestDistinct_dropsRepeatsSeenAnywhereEarlier(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 1, 3, 2}), Distinct[int]()))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestDistinctUntilChanged_onlyCollapsesConsecutiveRuns(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 1, 2, 2, 1}), DistinctUntilChanged[int]()))
	is.NoError(err)
	is.Equal([]int{1, 2, 1}, values)
}

func TestTap_invokesSideEffectWithoutAlteringValues(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var seen []int
	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Tap(func(v int) { seen = append(seen, v) }, nil, nil)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
	is.Equal([]int{1, 2, 3}, seen)
}

func TestToSlice_emitsOneSliceOnComplete(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), ToSlice[int]()))
	is.NoError(err)
	is.Equal([][]int{{1, 2, 3}}, values)
}

func TestCast_succeedsWhenTypeMatches(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := Just[any](1, 2, 3)
	values, err := Collect(Pipe1(source, Cast[any, int]()))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestCast_errorsOnTypeMismatch(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	source := Just[any](1, "not an int")
	_, err := Collect(Pipe1(source, Cast[any, int]()))
	is.ErrorIs(err, ErrIllegalArgument)
}
