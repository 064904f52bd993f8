// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/commercekit/platform/pkg/errors"

// Wrapper for Service errors.
var (
	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = errors.New("malformed entity specification")

	// ErrNotFound indicates a non-existent entity request.
	ErrNotFound = errors.New("entity not found")

	// ErrForbidden indicates that an operation is denied by policy.
	ErrForbidden = errors.New("operation forbidden by policy")

	// ErrConflict indicates that entity already exists.
	ErrConflict = errors.New("entity already exists")

	// ErrCreateEntity indicates error in creating entity or entities.
	ErrCreateEntity = errors.New("failed to create entity in the db")

	// ErrViewEntity indicates error in viewing entity or entities.
	ErrViewEntity = errors.New("view entity failed")

	// ErrUpdateEntity indicates error in updating entity or entities.
	ErrUpdateEntity = errors.New("update entity failed")

	// ErrRemoveEntity indicates error in removing entity.
	ErrRemoveEntity = errors.New("failed to remove entity")

	// ErrInconsistentState indicates that the credential and account stores
	// hold diverging records for the same username.
	ErrInconsistentState = errors.New("credential and account records diverged")

	// ErrUniqueID indicates an error in generating a unique ID.
	ErrUniqueID = errors.New("failed to generate unique identifier")
)
