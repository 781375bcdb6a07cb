package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/config"
	"PGCheckout/internal/db"
	internalhttp "PGCheckout/internal/http"
	"PGCheckout/internal/services"
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

	ctx := context.Background()
	gateway := cashfree.NewClient(
		cfg.Cashfree.BaseURL,
		cfg.Cashfree.AppID,
		cfg.Cashfree.SecretKey,
		cfg.Cashfree.APIVersion,
	)

	var audit services.AuditStore
	if cfg.DB.DSN != "" {
		pool, err := db.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("db connect failed", zap.Error(err))
		}
		defer pool.Close()
		audit = store.New(pool)
	} else {
		logger.Info("db.dsn not set, audit trail disabled")
	}

	orderSvc := &services.OrderService{
		Gateway:   gateway,
		Audit:     audit,
		ClientURL: cfg.Client.URL,
		TTL:       time.Duration(cfg.Orders.TTLMinutes) * time.Minute,
		Note:      cfg.Orders.Note,
		Logger:    logger,
	}

	h := internalhttp.NewHandler(orderSvc, logger)
	srv := internalhttp.NewServer(h)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info("server exited")
}
