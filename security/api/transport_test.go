// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/commercekit/platform/logger"
	"github.com/commercekit/platform/pkg/uuid"
	"github.com/commercekit/platform/security"
	"github.com/commercekit/platform/security/api"
	"github.com/commercekit/platform/security/mocks"
	"github.com/commercekit/platform/security/provider"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentType = "application/json"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	idp := uuid.NewMock()
	svc := security.New(
		mocks.NewCredentialStore(),
		mocks.NewAccountStore(),
		provider.New(idp),
		security.NewPolicy([]string{"root"}),
		idp,
	)

	log, err := logger.New(io.Discard, "info")
	require.Nil(t, err)

	mux := chi.NewRouter()
	ts := httptest.NewServer(api.MakeHandler(svc, mux, log, "test-instance"))
	t.Cleanup(ts.Close)

	return ts
}

func request(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.Nil(t, err)
	req.Header.Set("Content-Type", contentType)

	res, err := ts.Client().Do(req)
	require.Nil(t, err)
	data, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	res.Body.Close()

	return res, data
}

func createUserHTTP(t *testing.T, ts *httptest.Server, username string) security.User {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"12345678"}`, username, username)
	res, data := request(t, ts, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))

	getRes, getData := request(t, ts, http.MethodGet, "/users/name/"+username, "")
	require.Equal(t, http.StatusOK, getRes.StatusCode)

	var user security.User
	require.Nil(t, json.Unmarshal(getData, &user))

	return user
}

func TestCreateAndViewUser(t *testing.T) {
	ts := newServer(t)
	user := createUserHTTP(t, ts, "alice")

	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.PasswordHash, "default detail must redact the password hash")

	t.Run("missing username", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPost, "/users", `{"email":"x@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPost, "/users", `{`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodGet, "/users/name/nobody", "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("view by id", func(t *testing.T) {
		res, data := request(t, ts, http.MethodGet, "/users/id/"+user.ID, "")
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var got security.User
		require.Nil(t, json.Unmarshal(data, &got))
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("view by email", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodGet, "/users/email/alice@example.com", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("export detail keeps secrets", func(t *testing.T) {
		res, data := request(t, ts, http.MethodGet, "/users/name/alice?detail=export", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var got security.User
		require.Nil(t, json.Unmarshal(data, &got))
		assert.NotEmpty(t, got.PasswordHash)
	})

	t.Run("invalid detail level", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodGet, "/users/name/alice?detail=bogus", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestUpdateUserHTTP(t *testing.T) {
	ts := newServer(t)
	user := createUserHTTP(t, ts, "alice")

	body := fmt.Sprintf(`{"id":%q,"email":"new@example.com"}`, user.ID)
	res, data := request(t, ts, http.MethodPut, "/users", body)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var result security.Result
	require.Nil(t, json.Unmarshal(data, &result))
	assert.True(t, result.Succeeded)

	t.Run("unknown user yields failed verdict", func(t *testing.T) {
		res, data := request(t, ts, http.MethodPut, "/users", `{"id":"missing"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

		var result security.Result
		require.Nil(t, json.Unmarshal(data, &result))
		assert.Equal(t, []string{security.MsgUserNotFound}, result.Errors)
	})

	t.Run("missing id", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPut, "/users", `{"email":"x@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestDeleteUsersHTTP(t *testing.T) {
	ts := newServer(t)
	createUserHTTP(t, ts, "alice")

	res, _ := request(t, ts, http.MethodDelete, "/users?names=alice,nobody", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	getRes, _ := request(t, ts, http.MethodGet, "/users/name/alice", "")
	assert.Equal(t, http.StatusNotFound, getRes.StatusCode)

	t.Run("empty list", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodDelete, "/users", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestSearchUsersHTTP(t *testing.T) {
	ts := newServer(t)
	for _, name := range []string{"alpha-1", "alpha-2", "beta"} {
		createUserHTTP(t, ts, name)
	}

	res, data := request(t, ts, http.MethodGet, "/users?keyword=alpha&skip=0&take=1", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var page security.SearchResponse
	require.Nil(t, json.Unmarshal(data, &page))
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "alpha-1", page.Users[0].Username)

	t.Run("invalid take", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodGet, "/users?take=-1", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestPasswordLifecycleHTTP(t *testing.T) {
	ts := newServer(t)
	user := createUserHTTP(t, ts, "alice")

	res, data := request(t, ts, http.MethodPatch, "/users/alice/password", `{"old_password":"12345678","new_password":"newpass456"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var result security.Result
	require.Nil(t, json.Unmarshal(data, &result))
	assert.True(t, result.Succeeded)

	t.Run("wrong old password", func(t *testing.T) {
		res, data := request(t, ts, http.MethodPatch, "/users/alice/password", `{"old_password":"bogus","new_password":"again789"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

		var result security.Result
		require.Nil(t, json.Unmarshal(data, &result))
		assert.Equal(t, []string{"incorrect password."}, result.Errors)
	})

	t.Run("administrative reset", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPost, "/users/alice/password/reset", `{"new_password":"reset1234"}`)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("token reset round trip", func(t *testing.T) {
		res, data := request(t, ts, http.MethodPost, "/users/"+user.ID+"/password/reset-token", "")
		require.Equal(t, http.StatusCreated, res.StatusCode)

		var tokenRes struct {
			Token string `json:"token"`
		}
		require.Nil(t, json.Unmarshal(data, &tokenRes))
		require.NotEmpty(t, tokenRes.Token)

		body := fmt.Sprintf(`{"id":%q,"token":%q,"new_password":"viatoken1"}`, user.ID, tokenRes.Token)
		res, data = request(t, ts, http.MethodPost, "/users/password/reset", body)
		assert.Equal(t, http.StatusOK, res.StatusCode)

		var result security.Result
		require.Nil(t, json.Unmarshal(data, &result))
		assert.True(t, result.Succeeded)

		// Second use of the same token must fail.
		res, _ = request(t, ts, http.MethodPost, "/users/password/reset", body)
		assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	})

	t.Run("missing new password", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPost, "/users/alice/password/reset", `{}`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestGenerateAPIAccountHTTP(t *testing.T) {
	ts := newServer(t)

	res, data := request(t, ts, http.MethodPost, "/apiaccounts", "")
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var account security.APIAccount
	require.Nil(t, json.Unmarshal(data, &account))
	assert.Equal(t, security.HmacAPIAccount, account.Type)
	assert.NotEmpty(t, account.AppID)
	assert.NotEmpty(t, account.SecretKey)

	t.Run("simple type", func(t *testing.T) {
		res, data := request(t, ts, http.MethodPost, "/apiaccounts?type=simple", "")
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		var account security.APIAccount
		require.Nil(t, json.Unmarshal(data, &account))
		assert.Equal(t, security.SimpleAPIAccount, account.Type)
		assert.Empty(t, account.SecretKey)
	})

	t.Run("unknown type", func(t *testing.T) {
		res, _ := request(t, ts, http.MethodPost, "/apiaccounts?type=bogus", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestHealth(t *testing.T) {
	ts := newServer(t)

	res, data := request(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(data), `"status":"pass"`)
}
