// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package security contains the domain concept definitions needed to
// support the platform security service functionality.
//
// The service keeps two records per user consistent with each other: a
// credential record owned by the credential store and a business account
// record owned by the account store, joined by the immutable username.
package security
