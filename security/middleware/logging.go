// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/commercekit/platform/security"
)

var _ security.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    security.Service
}

// Logging adds logging facilities to the security service.
func Logging(logger *slog.Logger, svc security.Service) security.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) UserByName(ctx context.Context, name string, level security.Detail) (user *security.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("username", name),
			slog.String("detail", level.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View user by name failed", args...)
			return
		}
		lm.logger.Info("View user by name completed successfully", args...)
	}(time.Now())
	return lm.svc.UserByName(ctx, name, level)
}

func (lm *loggingMiddleware) UserByID(ctx context.Context, id string, level security.Detail) (user *security.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", id),
			slog.String("detail", level.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View user by id failed", args...)
			return
		}
		lm.logger.Info("View user by id completed successfully", args...)
	}(time.Now())
	return lm.svc.UserByID(ctx, id, level)
}

func (lm *loggingMiddleware) UserByEmail(ctx context.Context, email string, level security.Detail) (user *security.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("email", email),
			slog.String("detail", level.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View user by email failed", args...)
			return
		}
		lm.logger.Info("View user by email completed successfully", args...)
	}(time.Now())
	return lm.svc.UserByEmail(ctx, email, level)
}

func (lm *loggingMiddleware) UserByLogin(ctx context.Context, login security.Login, level security.Detail) (user *security.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("login",
				slog.String("provider", login.Provider),
			),
			slog.String("detail", level.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View user by login failed", args...)
			return
		}
		lm.logger.Info("View user by login completed successfully", args...)
	}(time.Now())
	return lm.svc.UserByLogin(ctx, login, level)
}

func (lm *loggingMiddleware) CreateUser(ctx context.Context, user *security.User) (result security.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if user != nil {
			args = append(args, slog.Group("user",
				slog.String("id", user.ID),
				slog.String("username", user.Username),
			))
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create user failed", args...)
			return
		}
		args = append(args, slog.Bool("succeeded", result.Succeeded))
		lm.logger.Info("Create user completed", args...)
	}(time.Now())
	return lm.svc.CreateUser(ctx, user)
}

func (lm *loggingMiddleware) UpdateUser(ctx context.Context, user *security.User) (result security.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if user != nil {
			args = append(args, slog.Group("user",
				slog.String("id", user.ID),
				slog.String("username", user.Username),
			))
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Update user failed", args...)
			return
		}
		args = append(args, slog.Bool("succeeded", result.Succeeded))
		lm.logger.Info("Update user completed", args...)
	}(time.Now())
	return lm.svc.UpdateUser(ctx, user)
}

func (lm *loggingMiddleware) DeleteUsers(ctx context.Context, names []string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Any("usernames", names),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete users failed", args...)
			return
		}
		lm.logger.Info("Delete users completed successfully", args...)
	}(time.Now())
	return lm.svc.DeleteUsers(ctx, names)
}

func (lm *loggingMiddleware) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) (result security.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("username", name),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Change password failed", args...)
			return
		}
		args = append(args, slog.Bool("succeeded", result.Succeeded))
		lm.logger.Info("Change password completed", args...)
	}(time.Now())
	return lm.svc.ChangePassword(ctx, name, oldPassword, newPassword)
}

func (lm *loggingMiddleware) ResetPassword(ctx context.Context, name, newPassword string) (result security.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("username", name),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Reset password failed", args...)
			return
		}
		args = append(args, slog.Bool("succeeded", result.Succeeded))
		lm.logger.Info("Reset password completed", args...)
	}(time.Now())
	return lm.svc.ResetPassword(ctx, name, newPassword)
}

func (lm *loggingMiddleware) ResetPasswordWithToken(ctx context.Context, id, token, newPassword string) (result security.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Reset password with token failed", args...)
			return
		}
		args = append(args, slog.Bool("succeeded", result.Succeeded))
		lm.logger.Info("Reset password with token completed", args...)
	}(time.Now())
	return lm.svc.ResetPasswordWithToken(ctx, id, token, newPassword)
}

func (lm *loggingMiddleware) GenerateResetToken(ctx context.Context, id string) (token string, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Generate reset token failed", args...)
			return
		}
		lm.logger.Info("Generate reset token completed successfully", args...)
	}(time.Now())
	return lm.svc.GenerateResetToken(ctx, id)
}

func (lm *loggingMiddleware) SearchUsers(ctx context.Context, req security.SearchRequest) (res security.SearchResponse, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("page",
				slog.String("keyword", req.Keyword),
				slog.Int("skip", req.Skip),
				slog.Int("take", req.Take),
				slog.Int("total", res.TotalCount),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Search users failed", args...)
			return
		}
		lm.logger.Info("Search users completed successfully", args...)
	}(time.Now())
	return lm.svc.SearchUsers(ctx, req)
}

func (lm *loggingMiddleware) GenerateAPIAccount(typ security.APIAccountType) (account security.APIAccount, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("type", typ.String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Generate api account failed", args...)
			return
		}
		lm.logger.Info("Generate api account completed successfully", args...)
	}(time.Now())
	return lm.svc.GenerateAPIAccount(typ)
}
