// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package tracing provides tracing instrumentation for the security service.
package tracing

import (
	"context"

	"github.com/commercekit/platform/security"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ security.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    security.Service
}

// New returns a new security service with tracing capabilities.
func New(tracer trace.Tracer, svc security.Service) security.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) UserByName(ctx context.Context, name string, level security.Detail) (*security.User, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_user_by_name", trace.WithAttributes(
		attribute.String("username", name),
		attribute.String("detail", level.String()),
	))
	defer span.End()
	return tm.svc.UserByName(ctx, name, level)
}

func (tm *tracingMiddleware) UserByID(ctx context.Context, id string, level security.Detail) (*security.User, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_user_by_id", trace.WithAttributes(
		attribute.String("user_id", id),
		attribute.String("detail", level.String()),
	))
	defer span.End()
	return tm.svc.UserByID(ctx, id, level)
}

func (tm *tracingMiddleware) UserByEmail(ctx context.Context, email string, level security.Detail) (*security.User, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_user_by_email", trace.WithAttributes(
		attribute.String("detail", level.String()),
	))
	defer span.End()
	return tm.svc.UserByEmail(ctx, email, level)
}

func (tm *tracingMiddleware) UserByLogin(ctx context.Context, login security.Login, level security.Detail) (*security.User, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_user_by_login", trace.WithAttributes(
		attribute.String("provider", login.Provider),
		attribute.String("detail", level.String()),
	))
	defer span.End()
	return tm.svc.UserByLogin(ctx, login, level)
}

func (tm *tracingMiddleware) CreateUser(ctx context.Context, user *security.User) (security.Result, error) {
	attrs := []attribute.KeyValue{}
	if user != nil {
		attrs = append(attrs, attribute.String("username", user.Username))
	}
	ctx, span := tm.tracer.Start(ctx, "svc_create_user", trace.WithAttributes(attrs...))
	defer span.End()
	return tm.svc.CreateUser(ctx, user)
}

func (tm *tracingMiddleware) UpdateUser(ctx context.Context, user *security.User) (security.Result, error) {
	attrs := []attribute.KeyValue{}
	if user != nil {
		attrs = append(attrs, attribute.String("user_id", user.ID))
	}
	ctx, span := tm.tracer.Start(ctx, "svc_update_user", trace.WithAttributes(attrs...))
	defer span.End()
	return tm.svc.UpdateUser(ctx, user)
}

func (tm *tracingMiddleware) DeleteUsers(ctx context.Context, names []string) error {
	ctx, span := tm.tracer.Start(ctx, "svc_delete_users", trace.WithAttributes(
		attribute.StringSlice("usernames", names),
	))
	defer span.End()
	return tm.svc.DeleteUsers(ctx, names)
}

func (tm *tracingMiddleware) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (security.Result, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_change_password", trace.WithAttributes(
		attribute.String("username", name),
	))
	defer span.End()
	return tm.svc.ChangePassword(ctx, name, oldPassword, newPassword)
}

func (tm *tracingMiddleware) ResetPassword(ctx context.Context, name, newPassword string) (security.Result, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_reset_password", trace.WithAttributes(
		attribute.String("username", name),
	))
	defer span.End()
	return tm.svc.ResetPassword(ctx, name, newPassword)
}

func (tm *tracingMiddleware) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (security.Result, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_reset_password_with_token", trace.WithAttributes(
		attribute.String("user_id", id),
	))
	defer span.End()
	return tm.svc.ResetPasswordWithToken(ctx, id, token, newPassword)
}

func (tm *tracingMiddleware) GenerateResetToken(ctx context.Context, id string) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_generate_reset_token", trace.WithAttributes(
		attribute.String("user_id", id),
	))
	defer span.End()
	return tm.svc.GenerateResetToken(ctx, id)
}

func (tm *tracingMiddleware) SearchUsers(ctx context.Context, req security.SearchRequest) (security.SearchResponse, error) {
	ctx, span := tm.tracer.Start(ctx, "svc_search_users", trace.WithAttributes(
		attribute.String("keyword", req.Keyword),
		attribute.Int("skip", req.Skip),
		attribute.Int("take", req.Take),
	))
	defer span.End()
	return tm.svc.SearchUsers(ctx, req)
}

func (tm *tracingMiddleware) GenerateAPIAccount(typ security.APIAccountType) (security.APIAccount, error) {
	return tm.svc.GenerateAPIAccount(typ)
}
