// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package security_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/commercekit/platform/pkg/errors"
	"github.com/commercekit/platform/pkg/uuid"
	"github.com/commercekit/platform/security"
	"github.com/commercekit/platform/security/mocks"
	"github.com/commercekit/platform/security/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommit = errors.New("commit failed")

func newService() security.Service {
	return newServiceWithStores(mocks.NewCredentialStore(), mocks.NewAccountStore(), nil)
}

func newServiceWithStores(cs security.CredentialStore, as security.AccountStore, protected []string) security.Service {
	idp := uuid.NewMock()
	return security.New(cs, as, provider.New(idp), security.NewPolicy(protected), idp)
}

func createUser(t *testing.T, svc security.Service, username, email, password string) security.User {
	t.Helper()

	user := security.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	result, err := svc.CreateUser(context.Background(), &user)
	require.Nil(t, err, fmt.Sprintf("create user %s: unexpected error %v", username, err))
	require.True(t, result.Succeeded, fmt.Sprintf("create user %s: unexpected verdict %v", username, result.Errors))

	stored, err := svc.UserByName(context.Background(), username, security.ReducedDetail)
	require.Nil(t, err)
	require.NotNil(t, stored)

	return *stored
}

func TestCreateUser(t *testing.T) {
	svc := newService()

	user := createUser(t, svc, "alice", "alice@example.com", "12345678")
	assert.NotEmpty(t, user.ID, "create must assign an ID when none is given")
	assert.Equal(t, security.ApprovedState, user.State, "created account state must be forced to approved")

	t.Run("duplicate username", func(t *testing.T) {
		dup := security.User{Username: "alice", Email: "other@example.com", Password: "12345678"}
		result, err := svc.CreateUser(context.Background(), &dup)
		assert.Nil(t, err)
		assert.False(t, result.Succeeded)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("nil user", func(t *testing.T) {
		_, err := svc.CreateUser(context.Background(), nil)
		assert.NotNil(t, err, "creating a nil user must be an error, not a failed verdict")
	})

	t.Run("pending state is overridden", func(t *testing.T) {
		user := security.User{Username: "bob", Email: "bob@example.com", State: security.PendingState}
		result, err := svc.CreateUser(context.Background(), &user)
		require.Nil(t, err)
		require.True(t, result.Succeeded)

		stored, err := svc.UserByName(context.Background(), "bob", security.ReducedDetail)
		require.Nil(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, security.ApprovedState, stored.State)
	})
}

func TestCreateUserAccountCommitFailure(t *testing.T) {
	cs := mocks.NewCredentialStore()
	svc := newServiceWithStores(cs, mocks.NewFailingAccountStore(errCommit), nil)

	user := security.User{Username: "alice", Email: "alice@example.com", Password: "12345678"}
	result, err := svc.CreateUser(context.Background(), &user)
	require.Nil(t, err)
	assert.False(t, result.Succeeded)
	assert.Contains(t, result.Errors[0], errCommit.Error())

	// The credential write is not rolled back when the account write fails.
	stored, err := svc.UserByName(context.Background(), "alice", security.ReducedDetail)
	require.Nil(t, err)
	assert.NotNil(t, stored, "credential record must survive the failed account write")
}

func TestUserLookups(t *testing.T) {
	svc := newService()
	created := createUser(t, svc, "alice", "alice@example.com", "12345678")

	cases := []struct {
		desc   string
		lookup func() (*security.User, error)
		found  bool
	}{
		{
			desc:   "by name",
			lookup: func() (*security.User, error) { return svc.UserByName(context.Background(), "alice", security.FullDetail) },
			found:  true,
		},
		{
			desc:   "by id",
			lookup: func() (*security.User, error) { return svc.UserByID(context.Background(), created.ID, security.FullDetail) },
			found:  true,
		},
		{
			desc: "by email",
			lookup: func() (*security.User, error) {
				return svc.UserByEmail(context.Background(), "alice@example.com", security.FullDetail)
			},
			found: true,
		},
		{
			desc:   "unknown name",
			lookup: func() (*security.User, error) { return svc.UserByName(context.Background(), "nobody", security.FullDetail) },
			found:  false,
		},
		{
			desc:   "unknown id",
			lookup: func() (*security.User, error) { return svc.UserByID(context.Background(), "missing", security.FullDetail) },
			found:  false,
		},
		{
			desc: "unknown email",
			lookup: func() (*security.User, error) {
				return svc.UserByEmail(context.Background(), "nobody@example.com", security.FullDetail)
			},
			found: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			user, err := tc.lookup()
			assert.Nil(t, err, "a missing user is reported as nil, never as an error")
			if tc.found {
				require.NotNil(t, user)
				assert.Equal(t, created.ID, user.ID)
				return
			}
			assert.Nil(t, user)
		})
	}
}

func TestUserByLogin(t *testing.T) {
	svc := newService()

	login := security.Login{Provider: "corporate-sso", ProviderKey: "alice-key"}
	user := security.User{Username: "alice", Email: "alice@example.com", Logins: []security.Login{login}}
	result, err := svc.CreateUser(context.Background(), &user)
	require.Nil(t, err)
	require.True(t, result.Succeeded)

	found, err := svc.UserByLogin(context.Background(), login, security.ReducedDetail)
	require.Nil(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)

	missing, err := svc.UserByLogin(context.Background(), security.Login{Provider: "corporate-sso", ProviderKey: "other"}, security.ReducedDetail)
	assert.Nil(t, err)
	assert.Nil(t, missing)
}

func TestRedaction(t *testing.T) {
	svc := newService()
	createUser(t, svc, "alice", "alice@example.com", "12345678")

	cases := []struct {
		desc     string
		level    security.Detail
		redacted bool
	}{
		{desc: "reduced detail", level: security.ReducedDetail, redacted: true},
		{desc: "full detail", level: security.FullDetail, redacted: true},
		{desc: "export detail", level: security.ExportDetail, redacted: false},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			user, err := svc.UserByName(context.Background(), "alice", tc.level)
			require.Nil(t, err)
			require.NotNil(t, user)
			if tc.redacted {
				assert.Empty(t, user.PasswordHash)
				assert.Empty(t, user.SecurityStamp)
				return
			}
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEmpty(t, user.SecurityStamp)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	svc := newServiceWithStores(mocks.NewCredentialStore(), mocks.NewAccountStore(), []string{"root"})
	created := createUser(t, svc, "alice", "alice@example.com", "12345678")
	protected := createUser(t, svc, "root", "root@example.com", "12345678")

	t.Run("patch fields", func(t *testing.T) {
		patch := security.User{
			ID:       created.ID,
			Email:    "new@example.com",
			Phone:    "555-0100",
			MemberID: "member-1",
		}
		result, err := svc.UpdateUser(context.Background(), &patch)
		require.Nil(t, err)
		require.True(t, result.Succeeded, fmt.Sprintf("unexpected verdict %v", result.Errors))

		stored, err := svc.UserByName(context.Background(), "alice", security.FullDetail)
		require.Nil(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "new@example.com", stored.Email)
		assert.Equal(t, "555-0100", stored.Phone)
		assert.Equal(t, "member-1", stored.MemberID)
		assert.Equal(t, "alice", stored.Username, "username is a join key and must never change")
	})

	t.Run("absent fields stay", func(t *testing.T) {
		patch := security.User{ID: created.ID, Phone: "555-0199"}
		result, err := svc.UpdateUser(context.Background(), &patch)
		require.Nil(t, err)
		require.True(t, result.Succeeded)

		stored, err := svc.UserByName(context.Background(), "alice", security.FullDetail)
		require.Nil(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "new@example.com", stored.Email, "an empty patch field must not clear the stored value")
		assert.Equal(t, "555-0199", stored.Phone)
	})

	t.Run("unknown user", func(t *testing.T) {
		patch := security.User{ID: "missing"}
		result, err := svc.UpdateUser(context.Background(), &patch)
		require.Nil(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, []string{security.MsgUserNotFound}, result.Errors)
	})

	t.Run("protected user", func(t *testing.T) {
		patch := security.User{ID: protected.ID, Email: "hijack@example.com"}
		result, err := svc.UpdateUser(context.Background(), &patch)
		require.Nil(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, []string{security.MsgUserNotEditable}, result.Errors)
	})

	t.Run("nil user", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), nil)
		assert.NotNil(t, err)
	})
}

func TestUpdateUserDivergedStores(t *testing.T) {
	cs := mocks.NewCredentialStore()
	as := mocks.NewAccountStore()
	svc := newServiceWithStores(cs, as, nil)

	// Seed the credential store only, bypassing the service, so the account
	// record is missing.
	session, err := cs.Session(context.Background())
	require.Nil(t, err)
	result := session.Create(context.Background(), security.Credential{ID: "orphan-id", Username: "orphan", Email: "orphan@example.com"}, "")
	require.True(t, result.Succeeded)
	require.Nil(t, session.Close())

	patch := security.User{ID: "orphan-id", Email: "patched@example.com"}
	res, err := svc.UpdateUser(context.Background(), &patch)
	require.Nil(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{security.MsgAccountNotFound}, res.Errors)

	// The credential patch stays committed even though the account step
	// reported the divergence.
	stored, err := svc.UserByName(context.Background(), "orphan", security.FullDetail)
	require.Nil(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "patched@example.com", stored.Email)
}

func TestDeleteUsers(t *testing.T) {
	svc := newServiceWithStores(mocks.NewCredentialStore(), mocks.NewAccountStore(), []string{"root"})
	createUser(t, svc, "alice", "alice@example.com", "12345678")
	createUser(t, svc, "bob", "bob@example.com", "12345678")
	createUser(t, svc, "root", "root@example.com", "12345678")

	err := svc.DeleteUsers(context.Background(), []string{"alice", "root", "nobody", "bob"})
	require.Nil(t, err, "protected and unknown names must be skipped, not reported")

	for _, name := range []string{"alice", "bob"} {
		user, err := svc.UserByName(context.Background(), name, security.ReducedDetail)
		assert.Nil(t, err)
		assert.Nil(t, user, fmt.Sprintf("user %s must be gone", name))
	}

	root, err := svc.UserByName(context.Background(), "root", security.ReducedDetail)
	assert.Nil(t, err)
	assert.NotNil(t, root, "protected user must survive the batch")
}

func TestChangePassword(t *testing.T) {
	svc := newServiceWithStores(mocks.NewCredentialStore(), mocks.NewAccountStore(), []string{"root"})
	createUser(t, svc, "alice", "alice@example.com", "oldpass123")
	createUser(t, svc, "root", "root@example.com", "oldpass123")

	cases := []struct {
		desc    string
		name    string
		oldPass string
		ok      bool
		msg     string
	}{
		{desc: "valid change", name: "alice", oldPass: "oldpass123", ok: true},
		{desc: "wrong old password", name: "alice", oldPass: "bogus", msg: "incorrect password."},
		{desc: "unknown user", name: "nobody", oldPass: "oldpass123", msg: security.MsgUserNotFound},
		{desc: "protected user", name: "root", oldPass: "oldpass123", msg: security.MsgUserNotEditable},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			result, err := svc.ChangePassword(context.Background(), tc.name, tc.oldPass, "newpass456")
			require.Nil(t, err)
			assert.Equal(t, tc.ok, result.Succeeded)
			if tc.msg != "" {
				assert.Equal(t, []string{tc.msg}, result.Errors)
			}
		})
	}
}

func TestResetPassword(t *testing.T) {
	svc := newService()
	createUser(t, svc, "alice", "alice@example.com", "oldpass123")

	result, err := svc.ResetPassword(context.Background(), "alice", "newpass456")
	require.Nil(t, err)
	assert.True(t, result.Succeeded, "reset must not require the old password")

	result, err = svc.ChangePassword(context.Background(), "alice", "newpass456", "third789")
	require.Nil(t, err)
	assert.True(t, result.Succeeded, "the reset password must be the active one")

	result, err = svc.ResetPassword(context.Background(), "nobody", "newpass456")
	require.Nil(t, err)
	assert.Equal(t, []string{security.MsgUserNotFound}, result.Errors)
}

func TestResetPasswordWithToken(t *testing.T) {
	svc := newService()
	created := createUser(t, svc, "alice", "alice@example.com", "oldpass123")

	token, err := svc.GenerateResetToken(context.Background(), created.ID)
	require.Nil(t, err)
	require.NotEmpty(t, token)

	result, err := svc.ResetPasswordWithToken(context.Background(), created.ID, token, "newpass456")
	require.Nil(t, err)
	assert.True(t, result.Succeeded, fmt.Sprintf("unexpected verdict %v", result.Errors))

	t.Run("token is single use", func(t *testing.T) {
		result, err := svc.ResetPasswordWithToken(context.Background(), created.ID, token, "again789")
		require.Nil(t, err)
		assert.False(t, result.Succeeded)
	})

	t.Run("bogus token", func(t *testing.T) {
		result, err := svc.ResetPasswordWithToken(context.Background(), created.ID, "bogus", "again789")
		require.Nil(t, err)
		assert.False(t, result.Succeeded)
	})

	t.Run("unknown user", func(t *testing.T) {
		result, err := svc.ResetPasswordWithToken(context.Background(), "missing", token, "again789")
		require.Nil(t, err)
		assert.Equal(t, []string{security.MsgUserNotFound}, result.Errors)
	})

	t.Run("token generation for unknown user", func(t *testing.T) {
		_, err := svc.GenerateResetToken(context.Background(), "missing")
		assert.NotNil(t, err)
		assert.True(t, errors.Contains(err, security.ErrRecoveryToken))
	})
}

func TestSearchUsers(t *testing.T) {
	svc := newService()
	for _, name := range []string{"delta", "alpha-2", "Alpha-1", "alpha-1", "alpha-3"} {
		createUser(t, svc, name, name+"@example.com", "12345678")
	}

	cases := []struct {
		desc  string
		req   security.SearchRequest
		total int
		names []string
	}{
		{
			desc:  "all users",
			req:   security.SearchRequest{Take: 10},
			total: 5,
			names: []string{"Alpha-1", "alpha-1", "alpha-2", "alpha-3", "delta"},
		},
		{
			desc:  "keyword filter is case sensitive",
			req:   security.SearchRequest{Keyword: "alpha", Take: 10},
			total: 3,
			names: []string{"alpha-1", "alpha-2", "alpha-3"},
		},
		{
			desc:  "second page",
			req:   security.SearchRequest{Keyword: "alpha", Skip: 1, Take: 2},
			total: 3,
			names: []string{"alpha-2", "alpha-3"},
		},
		{
			desc:  "take clamps to the remainder",
			req:   security.SearchRequest{Keyword: "alpha", Skip: 2, Take: 10},
			total: 3,
			names: []string{"alpha-3"},
		},
		{
			desc:  "skip beyond the set",
			req:   security.SearchRequest{Keyword: "alpha", Skip: 10, Take: 10},
			total: 3,
			names: []string{},
		},
		{
			desc:  "no match",
			req:   security.SearchRequest{Keyword: "omega", Take: 10},
			total: 0,
			names: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := svc.SearchUsers(context.Background(), tc.req)
			require.Nil(t, err)
			assert.Equal(t, tc.total, res.TotalCount, "total count covers the filtered set, not the page")

			names := make([]string, 0, len(res.Users))
			for _, user := range res.Users {
				names = append(names, user.Username)
				assert.Empty(t, user.PasswordHash, "search results are always redacted")
			}
			assert.Equal(t, tc.names, names)
		})
	}
}
