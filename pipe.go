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

// Pipe composition helpers. Every operator in this package is a plain
// function from Observable[T] to Observable[R] (see operator_simple.go,
// operator_math.go, ...); PipeN exists only to chain several of them
// left-to-right without nesting parentheses at every call site.
package ro

// Pipe1 applies op1 to source.
func Pipe1[T, A any](source Observable[T], op1 func(Observable[T]) Observable[A]) Observable[A] {
	return op1(source)
}

// Pipe2 applies op1 then op2 to source.
func Pipe2[T, A, B any](source Observable[T], op1 func(Observable[T]) Observable[A], op2 func(Observable[A]) Observable[B]) Observable[B] {
	return op2(op1(source))
}

// Pipe3 applies op1, op2, then op3 to source.
func Pipe3[T, A, B, C any](
	source Observable[T],
	op1 func(Observable[T]) Observable[A],
	op2 func(Observable[A]) Observable[B],
	op3 func(Observable[B]) Observable[C],
) Observable[C] {
	return op3(op2(op1(source)))
}

// Pipe4 applies op1 through op4 to source.
func Pipe4[T, A, B, C, D any](
	source Observable[T],
	op1 func(Observable[T]) Observable[A],
	op2 func(Observable[A]) Observable[B],
	op3 func(Observable[B]) Observable[C],
	op4 func(Observable[C]) Observable[D],
) Observable[D] {
	return op4(op3(op2(op1(source))))
}

// Pipe5 applies op1 through op5 to source.
func Pipe5[T, A, B, C, D, E any](
	source Observable[T],
	op1 func(Observable[T]) Observable[A],
	op2 func(Observable[A]) Observable[B],
	op3 func(Observable[B]) Observable[C],
	op4 func(Observable[C]) Observable[D],
	op5 func(Observable[D]) Observable[E],
) Observable[E] {
	return op5(op4(op3(op2(op1(source)))))
}
