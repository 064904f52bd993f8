// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"strings"

	"github.com/commercekit/platform/pkg/events"
	"github.com/commercekit/platform/security"
)

const (
	userPrefix        = "user."
	userCreate        = userPrefix + "create"
	userUpdate        = userPrefix + "update"
	userRemove        = userPrefix + "remove"
	userChangePass    = userPrefix + "change_password"
	userResetPass     = userPrefix + "reset_password"
	userGenResetToken = userPrefix + "generate_reset_token"
)

var (
	_ events.Event = (*createUserEvent)(nil)
	_ events.Event = (*updateUserEvent)(nil)
	_ events.Event = (*removeUsersEvent)(nil)
	_ events.Event = (*passwordEvent)(nil)
)

type createUserEvent struct {
	user      security.User
	succeeded bool
}

func (cue createUserEvent) Encode() (map[string]interface{}, error) {
	val := map[string]interface{}{
		"operation": userCreate,
		"id":        cue.user.ID,
		"username":  cue.user.Username,
		"succeeded": cue.succeeded,
	}
	if cue.user.Email != "" {
		val["email"] = cue.user.Email
	}

	return val, nil
}

type updateUserEvent struct {
	user      security.User
	succeeded bool
}

func (uue updateUserEvent) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"operation": userUpdate,
		"id":        uue.user.ID,
		"succeeded": uue.succeeded,
	}, nil
}

type removeUsersEvent struct {
	names []string
}

func (rue removeUsersEvent) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"operation": userRemove,
		"usernames": strings.Join(rue.names, ","),
	}, nil
}

// passwordEvent covers the password lifecycle operations. Passwords and
// tokens never appear in the payload.
type passwordEvent struct {
	operation string
	subject   string
	succeeded bool
}

func (pe passwordEvent) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"operation": pe.operation,
		"subject":   pe.subject,
		"succeeded": pe.succeeded,
	}, nil
}
