// Copyright (c) CommerceKit
// SPDX-License-Identifier: Apache-2.0

// Package main contains security main function to start the security service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	chi "github.com/go-chi/chi/v5"

	pltlog "github.com/commercekit/platform/logger"
	"github.com/commercekit/platform/pkg/jaeger"
	pgclient "github.com/commercekit/platform/pkg/postgres"
	"github.com/commercekit/platform/pkg/prometheus"
	redisclient "github.com/commercekit/platform/pkg/redis"
	"github.com/commercekit/platform/pkg/server"
	httpserver "github.com/commercekit/platform/pkg/server/http"
	"github.com/commercekit/platform/pkg/uuid"
	"github.com/commercekit/platform/security"
	httpapi "github.com/commercekit/platform/security/api"
	"github.com/commercekit/platform/security/events"
	"github.com/commercekit/platform/security/hasher"
	"github.com/commercekit/platform/security/middleware"
	securitypg "github.com/commercekit/platform/security/postgres"
	"github.com/commercekit/platform/security/provider"
	"github.com/commercekit/platform/security/tracing"
	"github.com/caarlos0/env/v11"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "security"
	envPrefixDB    = "PLT_SECURITY_DB_"
	envPrefixHTTP  = "PLT_SECURITY_HTTP_"
	defDB          = "security"
	defSvcHTTPPort = "9002"
)

type config struct {
	LogLevel         string   `env:"PLT_SECURITY_LOG_LEVEL"       envDefault:"info"`
	AdminUsername    string   `env:"PLT_SECURITY_ADMIN_USERNAME"  envDefault:""`
	AdminEmail       string   `env:"PLT_SECURITY_ADMIN_EMAIL"     envDefault:""`
	AdminPassword    string   `env:"PLT_SECURITY_ADMIN_PASSWORD"  envDefault:""`
	NonEditableUsers []string `env:"PLT_SECURITY_NON_EDITABLE"    envDefault:""`
	ESURL            string   `env:"PLT_ES_URL"                   envDefault:"redis://localhost:6379/0"`
	ESStreamLen      int64    `env:"PLT_ES_STREAM_LEN"            envDefault:"1000"`
	JaegerURL        url.URL  `env:"PLT_JAEGER_URL"               envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio       float64  `env:"PLT_JAEGER_TRACE_RATIO"       envDefault:"1.0"`
	InstanceID       string   `env:"PLT_SECURITY_INSTANCE_ID"     envDefault:""`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := pltlog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err.Error())
	}

	var exitCode int
	defer pltlog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	dbConfig := pgclient.Config{Name: defDB}
	if err := env.ParseWithOptions(&dbConfig, env.Options{Prefix: envPrefixDB}); err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	db, err := pgclient.Setup(dbConfig, *securitypg.Migration())
	if err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	defer db.Close()

	tp, err := jaeger.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to init Jaeger: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("error shutting down tracer provider: %v", err))
		}
	}()
	tracer := tp.Tracer(svcName)

	svc, err := newService(ctx, db, cfg, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to setup service: %s", err))
		exitCode = 1
		return
	}

	if err := createAdmin(ctx, cfg, svc); err != nil {
		logger.Error(fmt.Sprintf("failed to create admin user: %s", err))
		exitCode = 1
		return
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	mux := chi.NewRouter()
	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(svc, mux, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(ctx context.Context, db *sqlx.DB, cfg config, tracer trace.Tracer, logger *slog.Logger) (security.Service, error) {
	idp := uuid.New()
	hsr := hasher.New()

	credentials := securitypg.NewCredentialStore(db, hsr, idp)
	accounts := securitypg.NewAccountStore(db)
	apiAccounts := provider.New(idp)
	policy := security.NewPolicy(cfg.NonEditableUsers)

	svc := security.New(credentials, accounts, apiAccounts, policy, idp)

	rc, err := redisclient.Connect(cfg.ESURL)
	if err != nil {
		return nil, err
	}
	svc = events.New(ctx, svc, rc, cfg.ESStreamLen)

	svc = tracing.New(tracer, svc)
	svc = middleware.Logging(logger, svc)

	counter, latency := prometheus.MakeMetrics("security", "api")
	svc = middleware.Metrics(counter, latency, svc)

	return svc, nil
}

func createAdmin(ctx context.Context, cfg config, svc security.Service) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	if user, err := svc.UserByName(ctx, cfg.AdminUsername, security.ReducedDetail); err != nil || user != nil {
		return err
	}

	admin := security.User{
		Username:        cfg.AdminUsername,
		Email:           cfg.AdminEmail,
		Password:        cfg.AdminPassword,
		IsAdministrator: true,
	}
	result, err := svc.CreateUser(ctx, &admin)
	if err != nil {
		return err
	}
	if !result.Succeeded {
		return fmt.Errorf("admin bootstrap rejected: %v", result.Errors)
	}

	return nil
}
