// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/commercekit/platform/pkg/apiutil"
	"github.com/commercekit/platform/security"
)

const (
	maxNameSize = 254
	maxTakeSize = 1000
	defTake     = 20
	defDetail   = security.Reduced
	defType     = security.Hmac
)

type viewUserByNameReq struct {
	name  string
	level security.Detail
}

func (req viewUserByNameReq) validate() error {
	if req.name == "" {
		return apiutil.ErrMissingUsername
	}

	return nil
}

type viewUserByIDReq struct {
	id    string
	level security.Detail
}

func (req viewUserByIDReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type viewUserByEmailReq struct {
	email string
	level security.Detail
}

func (req viewUserByEmailReq) validate() error {
	if req.email == "" {
		return apiutil.ErrMissingEmail
	}

	return nil
}

type viewUserByLoginReq struct {
	login security.Login
	level security.Detail
}

func (req viewUserByLoginReq) validate() error {
	if req.login.Provider == "" {
		return apiutil.ErrMissingLoginProvider
	}

	return nil
}

type createUserReq struct {
	User security.User
}

func (req createUserReq) validate() error {
	if req.User.Username == "" {
		return apiutil.ErrMissingUsername
	}
	if len(req.User.Username) > maxNameSize {
		return apiutil.ErrNameSize
	}
	if req.User.Email == "" {
		return apiutil.ErrMissingEmail
	}

	return nil
}

type updateUserReq struct {
	User security.User
}

func (req updateUserReq) validate() error {
	if req.User.ID == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type deleteUsersReq struct {
	Usernames []string
}

func (req deleteUsersReq) validate() error {
	if len(req.Usernames) == 0 {
		return apiutil.ErrEmptyList
	}

	return nil
}

type searchUsersReq struct {
	search security.SearchRequest
}

func (req searchUsersReq) validate() error {
	if req.search.Skip < 0 {
		return apiutil.ErrOffsetSize
	}
	if req.search.Take < 0 || req.search.Take > maxTakeSize {
		return apiutil.ErrLimitSize
	}

	return nil
}

type changePasswordReq struct {
	name        string
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (req changePasswordReq) validate() error {
	if req.name == "" {
		return apiutil.ErrMissingUsername
	}
	if req.NewPassword == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

type resetPasswordReq struct {
	name        string
	NewPassword string `json:"new_password"`
}

func (req resetPasswordReq) validate() error {
	if req.name == "" {
		return apiutil.ErrMissingUsername
	}
	if req.NewPassword == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

type resetPasswordWithTokenReq struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (req resetPasswordWithTokenReq) validate() error {
	if req.ID == "" {
		return apiutil.ErrMissingID
	}
	if req.Token == "" {
		return apiutil.ErrMissingResetToken
	}
	if req.NewPassword == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

type generateResetTokenReq struct {
	id string
}

func (req generateResetTokenReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type generateAPIAccountReq struct {
	typ security.APIAccountType
}

func (req generateAPIAccountReq) validate() error {
	return nil
}
