package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/config"
	"PGCheckout/internal/db"
	"PGCheckout/internal/reconciler"
	"PGCheckout/internal/store"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	if cfg.DB.DSN == "" {
		logger.Fatal("db.dsn is required for the reconciler")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	gateway := cashfree.NewClient(
		cfg.Cashfree.BaseURL,
		cfg.Cashfree.AppID,
		cfg.Cashfree.SecretKey,
		cfg.Cashfree.APIVersion,
	)

	r := &reconciler.Reconciler{
		Store:    store.New(pool),
		Gateway:  gateway,
		Interval: time.Duration(cfg.Reconciler.IntervalSeconds) * time.Second,
		Grace:    time.Duration(cfg.Reconciler.GraceMinutes) * time.Minute,
		Logger:   logger,
	}

	logger.Info("reconciler started",
		zap.Int64("interval_seconds", cfg.Reconciler.IntervalSeconds),
		zap.Int("grace_minutes", cfg.Reconciler.GraceMinutes),
	)
	r.Run(ctx)
}
