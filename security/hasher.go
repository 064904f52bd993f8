// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

// Hasher specifies an API for generating and verifying password hashes.
// It is consumed by credential store implementations; the coordinator never
// sees plain or hashed passwords beyond passing them through.
type Hasher interface {
	// Hash generates the hashed password.
	Hash(pwd string) (string, error)

	// Compare compares plain and hashed password. A non-nil error indicates
	// a mismatch.
	Compare(plain, hashed string) error
}
