// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package middleware provides decorators for the security service.
package middleware
