// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/commercekit/platform/pkg/apiutil"
	"github.com/commercekit/platform/pkg/errors"
	"github.com/commercekit/platform/security"
	"github.com/go-kit/kit/endpoint"
)

func viewUserByNameEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewUserByNameReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.UserByName(ctx, req.name, req.level)
		if err != nil {
			return nil, err
		}

		return viewUserRes{User: user}, nil
	}
}

func viewUserByIDEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewUserByIDReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.UserByID(ctx, req.id, req.level)
		if err != nil {
			return nil, err
		}

		return viewUserRes{User: user}, nil
	}
}

func viewUserByEmailEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewUserByEmailReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.UserByEmail(ctx, req.email, req.level)
		if err != nil {
			return nil, err
		}

		return viewUserRes{User: user}, nil
	}
}

func viewUserByLoginEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(viewUserByLoginReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.UserByLogin(ctx, req.login, req.level)
		if err != nil {
			return nil, err
		}

		return viewUserRes{User: user}, nil
	}
}

func createUserEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		result, err := svc.CreateUser(ctx, &req.User)
		if err != nil {
			return nil, err
		}

		return resultRes{Result: result, created: true}, nil
	}
}

func updateUserEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(updateUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		result, err := svc.UpdateUser(ctx, &req.User)
		if err != nil {
			return nil, err
		}

		return resultRes{Result: result}, nil
	}
}

func deleteUsersEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(deleteUsersReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.DeleteUsers(ctx, req.Usernames); err != nil {
			return nil, err
		}

		return deleteUsersRes{}, nil
	}
}

func searchUsersEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(searchUsersReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		res, err := svc.SearchUsers(ctx, req.search)
		if err != nil {
			return nil, err
		}

		return searchUsersRes{SearchResponse: res}, nil
	}
}

func changePasswordEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(changePasswordReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		result, err := svc.ChangePassword(ctx, req.name, req.OldPassword, req.NewPassword)
		if err != nil {
			return nil, err
		}

		return resultRes{Result: result}, nil
	}
}

func resetPasswordEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(resetPasswordReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		result, err := svc.ResetPassword(ctx, req.name, req.NewPassword)
		if err != nil {
			return nil, err
		}

		return resultRes{Result: result}, nil
	}
}

func resetPasswordWithTokenEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(resetPasswordWithTokenReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		result, err := svc.ResetPasswordWithToken(ctx, req.ID, req.Token, req.NewPassword)
		if err != nil {
			return nil, err
		}

		return resultRes{Result: result}, nil
	}
}

func generateResetTokenEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(generateResetTokenReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		token, err := svc.GenerateResetToken(ctx, req.id)
		if err != nil {
			return nil, err
		}

		return resetTokenRes{Token: token}, nil
	}
}

func generateAPIAccountEndpoint(svc security.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(generateAPIAccountReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		account, err := svc.GenerateAPIAccount(req.typ)
		if err != nil {
			return nil, err
		}

		return apiAccountRes{APIAccount: account}, nil
	}
}
