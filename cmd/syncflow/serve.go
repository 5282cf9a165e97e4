package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncflow/syncflow-api/internal/api"
	"github.com/syncflow/syncflow-api/internal/api/handler"
	"github.com/syncflow/syncflow-api/internal/core/service"
	"github.com/syncflow/syncflow-api/internal/infrastructure/config"
	mongodb "github.com/syncflow/syncflow-api/internal/infrastructure/db/mongo"
	redisdb "github.com/syncflow/syncflow-api/internal/infrastructure/db/redis"
	httpserver "github.com/syncflow/syncflow-api/internal/infrastructure/http"
	"github.com/syncflow/syncflow-api/internal/infrastructure/mailer"
	"github.com/syncflow/syncflow-api/internal/infrastructure/realtime"
	"github.com/syncflow/syncflow-api/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel))

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	teams := mongodb.NewTeamRepository(db)
	projects := mongodb.NewProjectRepository(db)
	invoices := mongodb.NewInvoiceRepository(db)

	// --- Services ---
	hub := realtime.NewHub(log)
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, service.TokenTTLs{
		Access:  cfg.Auth.AccessTokenTTL,
		Refresh: cfg.Auth.RefreshTokenTTL,
		Reset:   cfg.Auth.ResetTokenTTL,
	})
	authService := service.NewAuthService(
		users,
		tokens,
		redisdb.NewResetLedger(rdb),
		mailer.NewLogMailer(log),
		cfg.HTTP.ClientURL,
		log,
	)

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Authenticator: authService,
		Clients:       service.NewClientService(clients, users, hub, log),
		Projects:      service.NewProjectService(projects, clients, teams, users, log),
		Teams:         service.NewTeamService(teams, users, projects, log),
		Invoices:      service.NewInvoiceService(invoices, projects, clients, log),
		Users:         service.NewUserService(users, teams, log),
		Analytics:     service.NewAnalyticsService(invoices, projects, log),
		Hub:           hub,
		Dependencies: []handler.Dependency{
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongodb.Ping(ctx, db) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) }},
		},
		Cookies: handler.CookieOptions{
			Secure:     cfg.IsProduction(),
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Heartbeat:      cfg.Realtime.Heartbeat,
		StreamBuffer:   cfg.Realtime.Buffer,
		Log:            log,
	})

	srv := httpserver.NewServer(e, cfg.Port, log)
	srv.BeforeShutdown = hub.Close

	log.Info().Str("env", cfg.Env).Str("version", version).Msg("syncflow starting")
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info().Msg("syncflow stopped")
	return nil
}
