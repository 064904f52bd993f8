// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"encoding/json"
	"strings"

	svcerr "github.com/commercekit/platform/pkg/errors/service"
)

// Detail controls how much of a user is populated on reads and whether
// secret fields survive redaction.
type Detail uint8

// Possible detail levels. ReducedDetail and FullDetail redact the password
// hash and the security stamp; ExportDetail does not.
const (
	ReducedDetail Detail = iota
	FullDetail
	ExportDetail
)

// String representation of the possible detail levels.
const (
	Reduced = "reduced"
	Full    = "full"
	Export  = "export"
)

// String converts detail level to string literal.
func (d Detail) String() string {
	switch d {
	case ReducedDetail:
		return Reduced
	case FullDetail:
		return Full
	case ExportDetail:
		return Export
	default:
		return Unknown
	}
}

// ToDetail converts string value to a valid detail level.
func ToDetail(detail string) (Detail, error) {
	switch detail {
	case "", Reduced:
		return ReducedDetail, nil
	case Full:
		return FullDetail, nil
	case Export:
		return ExportDetail, nil
	}
	return Detail(0), svcerr.ErrMalformedEntity
}

// MarshalJSON marshals detail level as its string literal.
func (d Detail) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON unmarshals detail level from its string literal.
func (d *Detail) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	val, err := ToDetail(str)
	*d = val
	return err
}
