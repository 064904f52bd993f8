// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	platform "github.com/commercekit/platform"
	"github.com/commercekit/platform/security"
)

var (
	_ platform.Response = (*viewUserRes)(nil)
	_ platform.Response = (*resultRes)(nil)
	_ platform.Response = (*deleteUsersRes)(nil)
	_ platform.Response = (*searchUsersRes)(nil)
	_ platform.Response = (*resetTokenRes)(nil)
	_ platform.Response = (*apiAccountRes)(nil)
)

type viewUserRes struct {
	*security.User
}

func (res viewUserRes) Code() int {
	if res.User == nil {
		return http.StatusNotFound
	}
	return http.StatusOK
}

func (res viewUserRes) Headers() map[string]string {
	return map[string]string{}
}

func (res viewUserRes) Empty() bool {
	return res.User == nil
}

// resultRes carries a store verdict. The HTTP code reflects the verdict, not
// transport success.
type resultRes struct {
	security.Result
	created bool
}

func (res resultRes) Code() int {
	if !res.Succeeded {
		return http.StatusUnprocessableEntity
	}
	if res.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (res resultRes) Headers() map[string]string {
	return map[string]string{}
}

func (res resultRes) Empty() bool {
	return false
}

type deleteUsersRes struct{}

func (res deleteUsersRes) Code() int {
	return http.StatusNoContent
}

func (res deleteUsersRes) Headers() map[string]string {
	return map[string]string{}
}

func (res deleteUsersRes) Empty() bool {
	return true
}

type searchUsersRes struct {
	security.SearchResponse
}

func (res searchUsersRes) Code() int {
	return http.StatusOK
}

func (res searchUsersRes) Headers() map[string]string {
	return map[string]string{}
}

func (res searchUsersRes) Empty() bool {
	return false
}

type resetTokenRes struct {
	Token string `json:"token"`
}

func (res resetTokenRes) Code() int {
	return http.StatusCreated
}

func (res resetTokenRes) Headers() map[string]string {
	return map[string]string{}
}

func (res resetTokenRes) Empty() bool {
	return false
}

type apiAccountRes struct {
	security.APIAccount
}

func (res apiAccountRes) Code() int {
	return http.StatusCreated
}

func (res apiAccountRes) Headers() map[string]string {
	return map[string]string{}
}

func (res apiAccountRes) Empty() bool {
	return false
}
