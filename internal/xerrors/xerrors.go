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

// Package xerrors provides composite-error joining, used by the subscription
// teardown path to report every failing finalizer together instead of only
// the first.
package xerrors

import "strings"

// Join combines zero or more errors into a single composite error. A single
// non-nil error is returned unwrapped. Nil errors are skipped. Returns nil
// if every error is nil.
func Join(errs ...error) error {
	var nonNil []error

	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &compositeError{errs: nonNil}
	}
}

// compositeError carries an ordered list of causes, as required by §7's
// "Composite errors" propagation policy.
type compositeError struct {
	errs []error
}

func (c *compositeError) Error() string {
	parts := make([]string, len(c.errs))
	for i, err := range c.errs {
		parts[i] = err.Error()
	}

	return strings.Join(parts, "; ")
}

// Unwrap exposes the ordered cause list to errors.Is/errors.As chains.
func (c *compositeError) Unwrap() []error {
	return c.errs
}

// Errors returns the ordered list of causes carried by a composite error,
// or nil if err is not one.
func Errors(err error) []error {
	if c, ok := err.(*compositeError); ok {
		return c.errs
	}

	return nil
}
