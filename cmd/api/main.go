package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jihowes/free-trial-snetinal-sub000/api/routes"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/clicks"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/directory"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/trials"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/users"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/email"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/favicon"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/migrate"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	emailClient, err := email.NewClient(context.Background(), cfg.Email, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create email client", err)
		os.Exit(1)
	}

	emailService, err := emails.NewService(emails.ServiceParams{
		EmailLogRepo: emails.NewRepository(dbClient.DB()),
		Sender:       emailClient,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create email service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		UserRepo:     users.NewRepository(dbClient.DB()),
		EmailService: emailService,
		JWTConfig:    cfg.JWT,
		Password:     cfg.Password,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	trialService, err := trials.NewService(trials.ServiceParams{
		TrialRepo:   trials.NewRepository(dbClient.DB()),
		PromptGuard: trials.NewPromptGuard(redisClient),
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create trial service", err)
		os.Exit(1)
	}

	directoryService, err := directory.NewService(directory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	clickService, err := clicks.NewService(clicks.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create click service", err)
		os.Exit(1)
	}

	faviconFetcher := favicon.NewFetcher(cfg.Favicon, redisClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			userService,
			trialService,
			directoryService,
			clickService,
			emailService,
			faviconFetcher,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
