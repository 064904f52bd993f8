// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security

// Credential decomposes the user into its credential record.
func (u User) Credential() Credential {
	return Credential{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Phone:            u.Phone,
		PasswordHash:     u.PasswordHash,
		SecurityStamp:    u.SecurityStamp,
		TwoFactorEnabled: u.TwoFactorEnabled,
		LockoutEnabled:   u.LockoutEnabled,
		Logins:           u.Logins,
	}
}

// Account decomposes the user into its account record.
func (u User) Account() Account {
	return Account{
		Username:        u.Username,
		State:           u.State,
		AccountType:     u.AccountType,
		MemberID:        u.MemberID,
		StoreID:         u.StoreID,
		IsAdministrator: u.IsAdministrator,
	}
}

// MergeUser assembles the externally exposed user from its two records. A
// zero account yields a user whose account fields stay at their defaults.
func MergeUser(cred Credential, acct Account) User {
	return User{
		ID:               cred.ID,
		Username:         cred.Username,
		Email:            cred.Email,
		Phone:            cred.Phone,
		PasswordHash:     cred.PasswordHash,
		SecurityStamp:    cred.SecurityStamp,
		TwoFactorEnabled: cred.TwoFactorEnabled,
		LockoutEnabled:   cred.LockoutEnabled,
		Logins:           cred.Logins,
		State:            acct.State,
		AccountType:      acct.AccountType,
		MemberID:         acct.MemberID,
		StoreID:          acct.StoreID,
		IsAdministrator:  acct.IsAdministrator,
	}
}

// PatchCredential overwrites the mutable fields of target with the user's
// values where those are present. Absent fields leave the target untouched:
// a zero value means absent, so a patch cannot reset a boolean to false or a
// string to empty. Username and ID are join keys and are never patched.
func (u User) PatchCredential(target *Credential) {
	if u.Email != "" {
		target.Email = u.Email
	}
	if u.Phone != "" {
		target.Phone = u.Phone
	}
	if u.TwoFactorEnabled {
		target.TwoFactorEnabled = true
	}
	if u.LockoutEnabled {
		target.LockoutEnabled = true
	}
	if u.Logins != nil {
		target.Logins = u.Logins
	}
}

// PatchAccount overwrites the mutable fields of target with the user's
// values where those are present, with the same absence rule as
// PatchCredential. The account state is patched only away from its default.
func (u User) PatchAccount(target *Account) {
	if u.State != ApprovedState {
		target.State = u.State
	}
	if u.AccountType != "" {
		target.AccountType = u.AccountType
	}
	if u.MemberID != "" {
		target.MemberID = u.MemberID
	}
	if u.StoreID != "" {
		target.StoreID = u.StoreID
	}
	if u.IsAdministrator {
		target.IsAdministrator = true
	}
}

// Redact clears the secret fields that must not leave the service unless the
// caller asked for ExportDetail.
func (u *User) Redact() {
	u.PasswordHash = ""
	u.SecurityStamp = ""
}
