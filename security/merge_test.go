// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security_test

import (
	"testing"

	"github.com/commercekit/platform/security"
	"github.com/stretchr/testify/assert"
)

func TestMergeUser(t *testing.T) {
	cred := security.Credential{
		ID:            "id-1",
		Username:      "alice",
		Email:         "alice@example.com",
		PasswordHash:  "hash",
		SecurityStamp: "stamp",
		Logins:        []security.Login{{Provider: "sso", ProviderKey: "key"}},
	}
	acct := security.Account{
		Username: "alice",
		State:    security.PendingState,
		MemberID: "member-1",
	}

	user := security.MergeUser(cred, acct)
	assert.Equal(t, "id-1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, security.PendingState, user.State)
	assert.Equal(t, "member-1", user.MemberID)
	assert.Len(t, user.Logins, 1)

	t.Run("zero account", func(t *testing.T) {
		user := security.MergeUser(cred, security.Account{})
		assert.Equal(t, security.ApprovedState, user.State)
		assert.Empty(t, user.MemberID)
	})
}

func TestPatchCredential(t *testing.T) {
	target := security.Credential{
		ID:               "id-1",
		Username:         "alice",
		Email:            "old@example.com",
		Phone:            "555-0100",
		TwoFactorEnabled: true,
	}

	patch := security.User{
		ID:       "other-id",
		Username: "mallory",
		Email:    "new@example.com",
	}
	patch.PatchCredential(&target)

	assert.Equal(t, "id-1", target.ID, "id must never be patched")
	assert.Equal(t, "alice", target.Username, "username must never be patched")
	assert.Equal(t, "new@example.com", target.Email)
	assert.Equal(t, "555-0100", target.Phone, "absent field must leave the target untouched")
	assert.True(t, target.TwoFactorEnabled, "a false boolean reads as absent and cannot unset")
}

func TestPatchAccount(t *testing.T) {
	target := security.Account{
		Username:    "alice",
		State:       security.ApprovedState,
		AccountType: "customer",
	}

	patch := security.User{State: security.RejectedState, MemberID: "member-1"}
	patch.PatchAccount(&target)

	assert.Equal(t, security.RejectedState, target.State)
	assert.Equal(t, "member-1", target.MemberID)
	assert.Equal(t, "customer", target.AccountType)

	t.Run("approved state reads as absent", func(t *testing.T) {
		target := security.Account{Username: "alice", State: security.RejectedState}
		patch := security.User{State: security.ApprovedState}
		patch.PatchAccount(&target)
		assert.Equal(t, security.RejectedState, target.State)
	})
}

func TestRedact(t *testing.T) {
	user := security.User{
		Username:      "alice",
		PasswordHash:  "hash",
		SecurityStamp: "stamp",
	}
	user.Redact()
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.SecurityStamp)
	assert.Equal(t, "alice", user.Username)
}
