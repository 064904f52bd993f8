// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

// Result is the uniform outcome of a mutating security operation. Errors is
// non-empty exactly when Succeeded is false; the messages keep the order in
// which the failures were reported.
type Result struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors,omitempty"`
}

// OK returns a successful result.
func OK() Result {
	return Result{Succeeded: true}
}

// Fail returns a failed result carrying the given error descriptions.
func Fail(errs ...string) Result {
	return Result{Errors: errs}
}
