// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"encoding/json"
	"strings"

	svcerr "github.com/commercekit/platform/pkg/errors/service"
)

// APIAccountType enumerates the kinds of API credentials the platform can
// issue.
type APIAccountType uint8

const (
	// HmacAPIAccount is an application ID paired with a shared secret used
	// for request signing.
	HmacAPIAccount APIAccountType = iota
	// SimpleAPIAccount is a bare API key.
	SimpleAPIAccount
)

// String representation of the possible API account types.
const (
	Hmac   = "hmac"
	Simple = "simple"
)

// String converts API account type to string literal.
func (t APIAccountType) String() string {
	switch t {
	case HmacAPIAccount:
		return Hmac
	case SimpleAPIAccount:
		return Simple
	default:
		return Unknown
	}
}

// ToAPIAccountType converts string value to a valid API account type.
func ToAPIAccountType(typ string) (APIAccountType, error) {
	switch typ {
	case "", Hmac:
		return HmacAPIAccount, nil
	case Simple:
		return SimpleAPIAccount, nil
	}
	return APIAccountType(0), svcerr.ErrMalformedEntity
}

// MarshalJSON marshals API account type as its string literal.
func (t APIAccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON unmarshals API account type from its string literal.
func (t *APIAccountType) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	val, err := ToAPIAccountType(str)
	*t = val
	return err
}

// APIAccount is a generated credential pair together with the account type
// it was generated for. It is immutable once produced.
type APIAccount struct {
	Type      APIAccountType `json:"type"`
	AppID     string         `json:"app_id"`
	SecretKey string         `json:"secret_key,omitempty"`
}

// APIAccountProvider generates API credential pairs for a given account
// type. Generation is stateless; nothing is persisted.
type APIAccountProvider interface {
	Generate(typ APIAccountType) (APIAccount, error)
}
