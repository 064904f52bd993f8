// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"encoding/json"
	"strings"

	svcerr "github.com/commercekit/platform/pkg/errors/service"
)

// State represents the lifecycle state of an account record.
type State uint8

// Possible account state values. Accounts are forced to ApprovedState at
// creation; later transitions happen through dedicated state operations, not
// through the regular update path.
const (
	ApprovedState State = iota
	PendingState
	RejectedState
)

// String representation of the possible state values.
const (
	Approved = "approved"
	Pending  = "pending"
	Rejected = "rejected"
	Unknown  = "unknown"
)

// String converts account state to string literal.
func (s State) String() string {
	switch s {
	case ApprovedState:
		return Approved
	case PendingState:
		return Pending
	case RejectedState:
		return Rejected
	default:
		return Unknown
	}
}

// ToState converts string value to a valid account state.
func ToState(state string) (State, error) {
	switch state {
	case "", Approved:
		return ApprovedState, nil
	case Pending:
		return PendingState, nil
	case Rejected:
		return RejectedState, nil
	}
	return State(0), svcerr.ErrMalformedEntity
}

// MarshalJSON marshals account state as its string literal.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON unmarshals account state from its string literal.
func (s *State) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	val, err := ToState(str)
	*s = val
	return err
}
