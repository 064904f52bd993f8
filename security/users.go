// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

// Login represents an external login binding on a credential record.
type Login struct {
	Provider    string `json:"provider"`
	ProviderKey string `json:"provider_key"`
}

// User is the externally exposed user shape: the union of the credential
// record and the account record for one username. It is assembled on read by
// joining the two stores and is never persisted as one object; writes always
// decompose it back into a credential write and an account write.
type User struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone,omitempty"`
	TwoFactorEnabled bool    `json:"two_factor_enabled"`
	LockoutEnabled   bool    `json:"lockout_enabled"`
	Logins           []Login `json:"logins,omitempty"`

	// Password is write-only. It is consumed by create and never
	// round-tripped back on reads.
	Password string `json:"password,omitempty"`

	// PasswordHash and SecurityStamp are redacted unless the caller asks
	// for ExportDetail.
	PasswordHash  string `json:"password_hash,omitempty"`
	SecurityStamp string `json:"security_stamp,omitempty"`

	State           State  `json:"state"`
	AccountType     string `json:"account_type,omitempty"`
	MemberID        string `json:"member_id,omitempty"`
	StoreID         string `json:"store_id,omitempty"`
	IsAdministrator bool   `json:"is_administrator"`
}

// SearchRequest contains the user search filter and pagination window.
type SearchRequest struct {
	Keyword string `json:"keyword,omitempty"`
	Skip    int    `json:"skip"`
	Take    int    `json:"take"`
}

// SearchResponse contains the total count of the filtered set and one page
// of users ordered by username ascending.
type SearchResponse struct {
	TotalCount int    `json:"total_count"`
	Users      []User `json:"users"`
}
