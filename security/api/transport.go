// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package api contains the HTTP transport of the security service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	platform "github.com/commercekit/platform"
	"github.com/commercekit/platform/pkg/apiutil"
	"github.com/commercekit/platform/pkg/errors"
	repoerr "github.com/commercekit/platform/pkg/errors/repository"
	svcerr "github.com/commercekit/platform/pkg/errors/service"
	"github.com/commercekit/platform/security"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const contentType = "application/json"

// MakeHandler returns a HTTP handler for the security service endpoints.
func MakeHandler(svc security.Service, mux *chi.Mux, logger *slog.Logger, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, encodeError)),
	}

	mux.Route("/users", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			createUserEndpoint(svc),
			decodeCreateUserReq,
			encodeResponse,
			opts...,
		), "create_user").ServeHTTP)

		r.Put("/", otelhttp.NewHandler(kithttp.NewServer(
			updateUserEndpoint(svc),
			decodeUpdateUserReq,
			encodeResponse,
			opts...,
		), "update_user").ServeHTTP)

		r.Delete("/", otelhttp.NewHandler(kithttp.NewServer(
			deleteUsersEndpoint(svc),
			decodeDeleteUsersReq,
			encodeResponse,
			opts...,
		), "delete_users").ServeHTTP)

		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			searchUsersEndpoint(svc),
			decodeSearchUsersReq,
			encodeResponse,
			opts...,
		), "search_users").ServeHTTP)

		r.Get("/name/{name}", otelhttp.NewHandler(kithttp.NewServer(
			viewUserByNameEndpoint(svc),
			decodeViewUserByNameReq,
			encodeResponse,
			opts...,
		), "user_by_name").ServeHTTP)

		r.Get("/id/{id}", otelhttp.NewHandler(kithttp.NewServer(
			viewUserByIDEndpoint(svc),
			decodeViewUserByIDReq,
			encodeResponse,
			opts...,
		), "user_by_id").ServeHTTP)

		r.Get("/email/{email}", otelhttp.NewHandler(kithttp.NewServer(
			viewUserByEmailEndpoint(svc),
			decodeViewUserByEmailReq,
			encodeResponse,
			opts...,
		), "user_by_email").ServeHTTP)

		r.Get("/login", otelhttp.NewHandler(kithttp.NewServer(
			viewUserByLoginEndpoint(svc),
			decodeViewUserByLoginReq,
			encodeResponse,
			opts...,
		), "user_by_login").ServeHTTP)

		r.Patch("/{name}/password", otelhttp.NewHandler(kithttp.NewServer(
			changePasswordEndpoint(svc),
			decodeChangePasswordReq,
			encodeResponse,
			opts...,
		), "change_password").ServeHTTP)

		r.Post("/{name}/password/reset", otelhttp.NewHandler(kithttp.NewServer(
			resetPasswordEndpoint(svc),
			decodeResetPasswordReq,
			encodeResponse,
			opts...,
		), "reset_password").ServeHTTP)

		r.Post("/password/reset", otelhttp.NewHandler(kithttp.NewServer(
			resetPasswordWithTokenEndpoint(svc),
			decodeResetPasswordWithTokenReq,
			encodeResponse,
			opts...,
		), "reset_password_with_token").ServeHTTP)

		r.Post("/{id}/password/reset-token", otelhttp.NewHandler(kithttp.NewServer(
			generateResetTokenEndpoint(svc),
			decodeGenerateResetTokenReq,
			encodeResponse,
			opts...,
		), "generate_reset_token").ServeHTTP)
	})

	mux.Post("/apiaccounts", otelhttp.NewHandler(kithttp.NewServer(
		generateAPIAccountEndpoint(svc),
		decodeGenerateAPIAccountReq,
		encodeResponse,
		opts...,
	), "generate_api_account").ServeHTTP)

	mux.Get("/health", platform.Health("security", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeViewUserByNameReq(_ context.Context, r *http.Request) (interface{}, error) {
	level, err := readDetail(r)
	if err != nil {
		return nil, err
	}

	return viewUserByNameReq{
		name:  chi.URLParam(r, "name"),
		level: level,
	}, nil
}

func decodeViewUserByIDReq(_ context.Context, r *http.Request) (interface{}, error) {
	level, err := readDetail(r)
	if err != nil {
		return nil, err
	}

	return viewUserByIDReq{
		id:    chi.URLParam(r, "id"),
		level: level,
	}, nil
}

func decodeViewUserByEmailReq(_ context.Context, r *http.Request) (interface{}, error) {
	level, err := readDetail(r)
	if err != nil {
		return nil, err
	}

	return viewUserByEmailReq{
		email: chi.URLParam(r, "email"),
		level: level,
	}, nil
}

func decodeViewUserByLoginReq(_ context.Context, r *http.Request) (interface{}, error) {
	level, err := readDetail(r)
	if err != nil {
		return nil, err
	}

	provider, err := apiutil.ReadStringQuery(r, "provider", "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	providerKey, err := apiutil.ReadStringQuery(r, "provider_key", "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return viewUserByLoginReq{
		login: security.Login{Provider: provider, ProviderKey: providerKey},
		level: level,
	}, nil
}

func decodeCreateUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req.User); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeUpdateUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req.User); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeDeleteUsersReq(_ context.Context, r *http.Request) (interface{}, error) {
	names, err := apiutil.ReadStringQuery(r, "names", "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	req := deleteUsersReq{}
	if names != "" {
		req.Usernames = strings.Split(names, ",")
	}

	return req, nil
}

func decodeSearchUsersReq(_ context.Context, r *http.Request) (interface{}, error) {
	keyword, err := apiutil.ReadStringQuery(r, "keyword", "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	skip, err := apiutil.ReadNumQuery(r, "skip", 0)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	take, err := apiutil.ReadNumQuery(r, "take", defTake)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return searchUsersReq{
		search: security.SearchRequest{
			Keyword: keyword,
			Skip:    skip,
			Take:    take,
		},
	}, nil
}

func decodeChangePasswordReq(_ context.Context, r *http.Request) (interface{}, error) {
	req := changePasswordReq{name: chi.URLParam(r, "name")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeResetPasswordReq(_ context.Context, r *http.Request) (interface{}, error) {
	req := resetPasswordReq{name: chi.URLParam(r, "name")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeResetPasswordWithTokenReq(_ context.Context, r *http.Request) (interface{}, error) {
	var req resetPasswordWithTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func decodeGenerateResetTokenReq(_ context.Context, r *http.Request) (interface{}, error) {
	return generateResetTokenReq{id: chi.URLParam(r, "id")}, nil
}

func decodeGenerateAPIAccountReq(_ context.Context, r *http.Request) (interface{}, error) {
	typ, err := apiutil.ReadStringQuery(r, "type", defType)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	accountType, err := security.ToAPIAccountType(typ)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrInvalidAccountType, err)
	}

	return generateAPIAccountReq{typ: accountType}, nil
}

func readDetail(r *http.Request) (security.Detail, error) {
	detail, err := apiutil.ReadStringQuery(r, "detail", defDetail)
	if err != nil {
		return security.ReducedDetail, errors.Wrap(apiutil.ErrValidation, err)
	}

	level, err := security.ToDetail(detail)
	if err != nil {
		return security.ReducedDetail, errors.Wrap(apiutil.ErrInvalidDetailLevel, err)
	}

	return level, nil
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(platform.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	switch {
	case errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, svcerr.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrMissingUsername),
		errors.Contains(err, apiutil.ErrMissingEmail),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrMissingPass),
		errors.Contains(err, apiutil.ErrMissingResetToken),
		errors.Contains(err, apiutil.ErrMissingLoginProvider),
		errors.Contains(err, apiutil.ErrEmptyList),
		errors.Contains(err, apiutil.ErrNameSize),
		errors.Contains(err, apiutil.ErrInvalidDetailLevel),
		errors.Contains(err, apiutil.ErrInvalidAccountType),
		errors.Contains(err, apiutil.ErrLimitSize),
		errors.Contains(err, apiutil.ErrOffsetSize),
		errors.Contains(err, apiutil.ErrInvalidQueryParams):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Contains(err, svcerr.ErrNotFound),
		errors.Contains(err, repoerr.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Contains(err, svcerr.ErrConflict),
		errors.Contains(err, repoerr.ErrConflict):
		w.WriteHeader(http.StatusConflict)
	case errors.Contains(err, svcerr.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		w.Header().Set("Content-Type", contentType)
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
