// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/commercekit/platform/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrMissingUsername indicates missing username.
	ErrMissingUsername = errors.New("missing username")

	// ErrMissingEmail indicates missing email.
	ErrMissingEmail = errors.New("missing email")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrMissingPass indicates missing password.
	ErrMissingPass = errors.New("missing password")

	// ErrMissingResetToken indicates missing password reset token.
	ErrMissingResetToken = errors.New("missing reset token")

	// ErrMissingLoginProvider indicates missing external login provider.
	ErrMissingLoginProvider = errors.New("missing login provider")

	// ErrNameSize indicates that username size exceeds the max.
	ErrNameSize = errors.New("invalid username size")

	// ErrEmptyList indicates that entity data is empty.
	ErrEmptyList = errors.New("empty list provided")

	// ErrInvalidDetailLevel indicates an unrecognized detail level.
	ErrInvalidDetailLevel = errors.New("invalid detail level provided")

	// ErrInvalidAccountType indicates an unrecognized API account type.
	ErrInvalidAccountType = errors.New("invalid api account type provided")

	// ErrLimitSize indicates that an invalid limit.
	ErrLimitSize = errors.New("invalid limit size")

	// ErrOffsetSize indicates an invalid offset.
	ErrOffsetSize = errors.New("invalid offset size")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")
)
