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
	"math"
	"sync/atomic"
)

// requestCancelled is the sentinel stored in a requestCounter once its
// subscription has been cancelled (§4.3's "lowest representable negative
// marks the cancelled state"). All operations treat it as absorbing.
const requestCancelled = int64(math.MinInt64)

// maxRequest is the saturating ceiling for outstanding demand: the largest
// representable 63-bit value.
const maxRequest = int64(math.MaxInt64)

// requestCounter is a lock-free saturating counter tracking outstanding
// backpressure demand, shared between one producer (draining, calling
// produced) and one consumer (requesting, calling add) per §4.3.
type requestCounter struct {
	n int64
}

// add performs a saturating increment of n (clamped at maxRequest), unless
// the counter has been cancelled, in which case it is a no-op. Lock-free CAS
// loop so concurrent requesters never block each other.
func (c *requestCounter) add(n int64) {
	for {
		current := atomic.LoadInt64(&c.n)
		if current == requestCancelled {
			return
		}

		next := current + n
		if next < current || next > maxRequest {
			next = maxRequest
		}

		if atomic.CompareAndSwapInt64(&c.n, current, next) {
			return
		}
	}
}

// produced performs a checked decrement of n, reflecting n values having
// been delivered against outstanding demand. Underflow (decrementing past
// what was ever requested) indicates a caller bug and panics rather than
// silently wrapping.
func (c *requestCounter) produced(n int64) {
	for {
		current := atomic.LoadInt64(&c.n)
		if current == requestCancelled {
			return
		}

		next := current - n
		if next < 0 {
			panic("ro: request accounting underflow: produced more than requested")
		}

		if atomic.CompareAndSwapInt64(&c.n, current, next) {
			return
		}
	}
}

// get returns the current outstanding demand, or 0 if cancelled.
func (c *requestCounter) get() int64 {
	current := atomic.LoadInt64(&c.n)
	if current == requestCancelled {
		return 0
	}
	return current
}

// cancel transitions the counter to the absorbing cancelled state.
func (c *requestCounter) cancel() {
	atomic.StoreInt64(&c.n, requestCancelled)
}

// isCancelled reports whether cancel has been called.
func (c *requestCounter) isCancelled() bool {
	return atomic.LoadInt64(&c.n) == requestCancelled
}
