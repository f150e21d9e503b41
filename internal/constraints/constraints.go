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

// Package constraints mirrors golang.org/x/exp/constraints, scoped to what
// samber/ro's numeric operators need. Kept local (rather than importing
// x/exp directly here) so the constraint set can grow independently of
// upstream without a version bump.
package constraints

// Signed is a constraint over the signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint over the unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint over all integer types.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint over the floating-point types.
type Float interface {
	~float32 | ~float64
}

// Numeric is a constraint over any type on which +, -, * and comparison
// operators behave numerically. It is used by the math operators (Sum,
// Average, Min, Max, Clamp, ...).
type Numeric interface {
	Integer | Float
}

// Ordered is a constraint over types supporting the < operator.
type Ordered interface {
	Numeric | ~string
}
