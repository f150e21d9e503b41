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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTestScheduler_scheduleFiresOnlyOnceAdvanced(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	worker := scheduler.CreateWorker()

	fired := false
	worker.Schedule(10*time.Millisecond, func() { fired = true })

	is.False(fired)
	scheduler.AdvanceBy(5 * time.Millisecond)
	is.False(fired)

	scheduler.AdvanceBy(5 * time.Millisecond)
	is.True(fired)
}

func TestTestScheduler_tasksRunInDueThenSubmissionOrder(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	worker := scheduler.CreateWorker()

	var order []int
	worker.Schedule(20*time.Millisecond, func() { order = append(order, 2) })
	worker.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	worker.Schedule(10*time.Millisecond, func() { order = append(order, 3) })

	scheduler.AdvanceBy(30 * time.Millisecond)

	is.Equal([]int{1, 3, 2}, order)
}

func TestTestScheduler_schedulePeriodicFiresOncePerPeriodCrossed(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	worker := scheduler.CreateWorker()

	count := 0
	worker.SchedulePeriodic(10*time.Millisecond, 10*time.Millisecond, func() { count++ })

	scheduler.AdvanceBy(35 * time.Millisecond)
	is.Equal(3, count)
}

func TestTestScheduler_disposeStopsFurtherFiring(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewTestScheduler()
	worker := scheduler.CreateWorker()

	count := 0
	worker.SchedulePeriodic(10*time.Millisecond, 10*time.Millisecond, func() { count++ })

	scheduler.AdvanceBy(15 * time.Millisecond)
	is.Equal(1, count)

	worker.Dispose()
	scheduler.AdvanceBy(50 * time.Millisecond)
	is.Equal(1, count)
}

func TestImmediateScheduler_runsTaskSynchronously(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewImmediateScheduler()
	worker := scheduler.CreateWorker()

	fired := false
	worker.Schedule(time.Hour, func() { fired = true })
	is.True(fired)
}

func TestGoroutineScheduler_schedulesAfterDelay(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	scheduler := NewGoroutineScheduler()
	worker := scheduler.CreateWorker()
	defer worker.Dispose()

	done := make(chan struct{})
	worker.Schedule(1*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	is.GreaterOrEqual(scheduler.Now(), time.Duration(0))
}
