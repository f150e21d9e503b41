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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialize_marshalsEachValueToJSON(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Serialize[int]()))
	is.NoError(err)
	is.Equal([]string{"1", "2", "3"}, values)
}

func TestUnserialize_parsesEachJSONStringToTarget(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	values, err := Collect(Pipe1(Just(`{"x":1,"y":2}`), Unserialize[point]()))
	is.NoError(err)
	is.Equal([]point{{X: 1, Y: 2}}, values)
}

func TestUnserialize_malformedJSONErrorsTheStream(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := Collect(Pipe1(Just("not json"), Unserialize[int]()))
	is.Error(err)
}

func TestValidate_forwardsValueUnchangedOnSuccess(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	ok := func(ctx context.Context, v int) (context.Context, error) { return ctx, nil }

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Validate[int](ok)))
	is.NoError(err)
	is.Equal([]int{1, 2, 3}, values)
}

func TestValidate_errorsOnFirstFailure(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := errors.New("invalid")
	reject := func(ctx context.Context, v int) (context.Context, error) {
		if v == 2 {
			return ctx, boom
		}
		return ctx, nil
	}

	values, err := Collect(Pipe1(FromSlice([]int{1, 2, 3}), Validate[int](reject)))
	is.ErrorIs(err, boom)
	is.Equal([]int{1}, values)
}

func TestDedup_dropsRepeatedPayloadsByContentHash(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := Collect(Pipe1(FromSlice([]string{"a", "b", "a", "c", "b"}), Dedup()))
	is.NoError(err)
	is.Equal([]string{"a", "b", "c"}, values)
}
