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

import "sync"

// SubscriptionArbiter wraps a swappable upstream FlowSubscription, letting
// an operator present one stable downstream FlowSubscription while its
// upstream subscription changes underneath it (§4.4). FlowObserveOn uses it
// to hold its upstream so demand requested before the upstream subscription
// arrives is carried over instead of lost; a future SB-side retry/switch
// operator re-subscribing upstream after an error would use it the same way
// to preserve outstanding demand across the swap.
type SubscriptionArbiter struct {
	mu        sync.Mutex
	current   FlowSubscription
	carryOver int64
	cancelled bool
}

// NewSubscriptionArbiter returns an arbiter with no current subscription
// and zero carried-over demand.
func NewSubscriptionArbiter() *SubscriptionArbiter {
	return &SubscriptionArbiter{}
}

// SetSubscription installs s as the current upstream subscription. If the
// arbiter is already cancelled, s is cancelled immediately instead. Any
// positive carry-over demand accumulated while there was no subscription is
// forwarded to s right away.
func (a *SubscriptionArbiter) SetSubscription(s FlowSubscription) {
	a.mu.Lock()
	if a.cancelled {
		a.mu.Unlock()
		s.Cancel()
		return
	}

	a.current = s
	carry := a.carryOver
	a.carryOver = 0
	a.mu.Unlock()

	if carry > 0 {
		s.Request(carry)
	}
}

// Request adds n to outstanding demand: forwarded immediately if a current
// subscription exists, otherwise accumulated as carry-over for the next
// SetSubscription.
func (a *SubscriptionArbiter) Request(n int64) {
	a.mu.Lock()
	if a.cancelled {
		a.mu.Unlock()
		return
	}

	current := a.current
	if current == nil {
		next := a.carryOver + n
		if next < a.carryOver {
			next = maxRequest
		}
		a.carryOver = next
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	current.Request(n)
}

// Produced deducts n from the carry-over (never below zero). Only
// meaningful while there is no current subscription; once one exists, the
// subscription's own request accounting is authoritative.
func (a *SubscriptionArbiter) Produced(n int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.carryOver -= n
	if a.carryOver < 0 {
		a.carryOver = 0
	}
}

// Cancel transitions the arbiter to cancelled and cancels the current
// subscription, if any. Every subsequent SetSubscription cancels its
// argument instead of installing it.
func (a *SubscriptionArbiter) Cancel() {
	a.mu.Lock()
	if a.cancelled {
		a.mu.Unlock()
		return
	}
	a.cancelled = true
	current := a.current
	a.current = nil
	a.mu.Unlock()

	if current != nil {
		current.Cancel()
	}
}

// IsCancelled reports whether Cancel has been called.
func (a *SubscriptionArbiter) IsCancelled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled
}
