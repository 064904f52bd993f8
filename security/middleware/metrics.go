// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/commercekit/platform/security"
	"github.com/go-kit/kit/metrics"
)

var _ security.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     security.Service
}

// Metrics instruments the security service by tracking request count and
// latency.
func Metrics(counter metrics.Counter, latency metrics.Histogram, svc security.Service) security.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) UserByName(ctx context.Context, name string, level security.Detail) (*security.User, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "user_by_name").Add(1)
		mm.latency.With("method", "user_by_name").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.UserByName(ctx, name, level)
}

func (mm *metricsMiddleware) UserByID(ctx context.Context, id string, level security.Detail) (*security.User, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "user_by_id").Add(1)
		mm.latency.With("method", "user_by_id").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.UserByID(ctx, id, level)
}

func (mm *metricsMiddleware) UserByEmail(ctx context.Context, email string, level security.Detail) (*security.User, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "user_by_email").Add(1)
		mm.latency.With("method", "user_by_email").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.UserByEmail(ctx, email, level)
}

func (mm *metricsMiddleware) UserByLogin(ctx context.Context, login security.Login, level security.Detail) (*security.User, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "user_by_login").Add(1)
		mm.latency.With("method", "user_by_login").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.UserByLogin(ctx, login, level)
}

func (mm *metricsMiddleware) CreateUser(ctx context.Context, user *security.User) (security.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create_user").Add(1)
		mm.latency.With("method", "create_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.CreateUser(ctx, user)
}

func (mm *metricsMiddleware) UpdateUser(ctx context.Context, user *security.User) (security.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "update_user").Add(1)
		mm.latency.With("method", "update_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.UpdateUser(ctx, user)
}

func (mm *metricsMiddleware) DeleteUsers(ctx context.Context, names []string) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "delete_users").Add(1)
		mm.latency.With("method", "delete_users").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.DeleteUsers(ctx, names)
}

func (mm *metricsMiddleware) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (security.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "change_password").Add(1)
		mm.latency.With("method", "change_password").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.ChangePassword(ctx, name, oldPassword, newPassword)
}

func (mm *metricsMiddleware) ResetPassword(ctx context.Context, name, newPassword string) (security.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "reset_password").Add(1)
		mm.latency.With("method", "reset_password").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.ResetPassword(ctx, name, newPassword)
}

func (mm *metricsMiddleware) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (security.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "reset_password_with_token").Add(1)
		mm.latency.With("method", "reset_password_with_token").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.ResetPasswordWithToken(ctx, id, token, newPassword)
}

func (mm *metricsMiddleware) GenerateResetToken(ctx context.Context, id string) (string, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_reset_token").Add(1)
		mm.latency.With("method", "generate_reset_token").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateResetToken(ctx, id)
}

func (mm *metricsMiddleware) SearchUsers(ctx context.Context, req security.SearchRequest) (security.SearchResponse, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "search_users").Add(1)
		mm.latency.With("method", "search_users").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.SearchUsers(ctx, req)
}

func (mm *metricsMiddleware) GenerateAPIAccount(typ security.APIAccountType) (security.APIAccount, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "generate_api_account").Add(1)
		mm.latency.With("method", "generate_api_account").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.svc.GenerateAPIAccount(typ)
}
