// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package events provides the event-sourcing decorator for the security
// service. Mutating operations are mirrored onto a Redis stream.
package events

import (
	"context"

	"github.com/commercekit/platform/pkg/events"
	"github.com/commercekit/platform/security"
	"github.com/redis/go-redis/v9"
)

const streamID = "commercekit.security"

var _ security.Service = (*eventStore)(nil)

type eventStore struct {
	events.Publisher
	svc security.Service
}

// New returns an event-sourcing decorator of the security service. Publish
// failures are swallowed; the store outcome is never changed by the stream.
func New(ctx context.Context, svc security.Service, client *redis.Client, streamLen int64) security.Service {
	publisher := events.NewPublisher(client, streamID, streamLen)
	go publisher.StartPublishingRoutine(ctx)

	return eventStore{
		Publisher: publisher,
		svc:       svc,
	}
}

func (es eventStore) UserByName(ctx context.Context, name string, level security.Detail) (*security.User, error) {
	return es.svc.UserByName(ctx, name, level)
}

func (es eventStore) UserByID(ctx context.Context, id string, level security.Detail) (*security.User, error) {
	return es.svc.UserByID(ctx, id, level)
}

func (es eventStore) UserByEmail(ctx context.Context, email string, level security.Detail) (*security.User, error) {
	return es.svc.UserByEmail(ctx, email, level)
}

func (es eventStore) UserByLogin(ctx context.Context, login security.Login, level security.Detail) (*security.User, error) {
	return es.svc.UserByLogin(ctx, login, level)
}

func (es eventStore) CreateUser(ctx context.Context, user *security.User) (security.Result, error) {
	result, err := es.svc.CreateUser(ctx, user)
	if err != nil || user == nil {
		return result, err
	}

	event := createUserEvent{user: *user, succeeded: result.Succeeded}
	_ = es.Publish(ctx, event)

	return result, nil
}

func (es eventStore) UpdateUser(ctx context.Context, user *security.User) (security.Result, error) {
	result, err := es.svc.UpdateUser(ctx, user)
	if err != nil || user == nil {
		return result, err
	}

	event := updateUserEvent{user: *user, succeeded: result.Succeeded}
	_ = es.Publish(ctx, event)

	return result, nil
}

func (es eventStore) DeleteUsers(ctx context.Context, names []string) error {
	if err := es.svc.DeleteUsers(ctx, names); err != nil {
		return err
	}

	_ = es.Publish(ctx, removeUsersEvent{names: names})

	return nil
}

func (es eventStore) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (security.Result, error) {
	result, err := es.svc.ChangePassword(ctx, name, oldPassword, newPassword)
	if err != nil {
		return result, err
	}

	_ = es.Publish(ctx, passwordEvent{operation: userChangePass, subject: name, succeeded: result.Succeeded})

	return result, nil
}

func (es eventStore) ResetPassword(ctx context.Context, name, newPassword string) (security.Result, error) {
	result, err := es.svc.ResetPassword(ctx, name, newPassword)
	if err != nil {
		return result, err
	}

	_ = es.Publish(ctx, passwordEvent{operation: userResetPass, subject: name, succeeded: result.Succeeded})

	return result, nil
}

func (es eventStore) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (security.Result, error) {
	result, err := es.svc.ResetPasswordWithToken(ctx, id, token, newPassword)
	if err != nil {
		return result, err
	}

	_ = es.Publish(ctx, passwordEvent{operation: userResetPass, subject: id, succeeded: result.Succeeded})

	return result, nil
}

func (es eventStore) GenerateResetToken(ctx context.Context, id string) (string, error) {
	token, err := es.svc.GenerateResetToken(ctx, id)
	if err != nil {
		return "", err
	}

	_ = es.Publish(ctx, passwordEvent{operation: userGenResetToken, subject: id, succeeded: true})

	return token, nil
}

func (es eventStore) SearchUsers(ctx context.Context, req security.SearchRequest) (security.SearchResponse, error) {
	return es.svc.SearchUsers(ctx, req)
}

func (es eventStore) GenerateAPIAccount(typ security.APIAccountType) (security.APIAccount, error) {
	return es.svc.GenerateAPIAccount(typ)
}
