package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/cron"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/trials"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/users"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/config"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/email"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/metrics"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/migrate"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	reminderJob, err := cron.NewReminderJob(cron.ReminderJobParams{
		Trials:     trials.NewRepository(dbClient.DB()),
		Users:      users.NewRepository(dbClient.DB()),
		Emails:     emailService,
		Logger:     logg,
		Metrics:    metricsCollector,
		BatchLimit: cfg.Reminders.BatchLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reminder job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("reminders"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reminderJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Reminders.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
