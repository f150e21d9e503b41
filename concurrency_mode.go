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

// ConcurrencyMode selects the synchronization strategy a Subscriber uses to
// protect its destination Observer against concurrent notification delivery
// (see §4.1's "operators MUST NOT invoke downstream callbacks concurrently").
type ConcurrencyMode uint8

const (
	// ConcurrencyModeSafe serializes every notification behind a real mutex.
	// The default; correct under any number of concurrent producers.
	ConcurrencyModeSafe ConcurrencyMode = iota

	// ConcurrencyModeUnsafe performs no synchronization at all. Only safe
	// when the caller already guarantees a single producer and does not
	// need protection against concurrent Unsubscribe/IsClosed calls.
	ConcurrencyModeUnsafe

	// ConcurrencyModeEventuallySafe serializes with a real mutex but drops
	// notifications instead of blocking when the lock is already held
	// (paired with BackpressureDrop).
	ConcurrencyModeEventuallySafe

	// ConcurrencyModeSingleProducer assumes a single producer and uses a
	// lockless fast path driven entirely by atomic status checks.
	ConcurrencyModeSingleProducer
)

// Backpressure selects what a Subscriber does when it cannot immediately
// acquire its serialization lock to deliver a Next notification.
type Backpressure uint8

const (
	// BackpressureBlock waits for the lock before delivering, preserving
	// every notification at the cost of blocking the producer.
	BackpressureBlock Backpressure = iota

	// BackpressureDrop drops the notification (routed to the plugin's
	// dropped-notification sink) rather than blocking the producer.
	BackpressureDrop
)
