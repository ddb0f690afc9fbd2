package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"rentx-admin/internal/config"
	"rentx-admin/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Info("no .env file found, relying on system env vars")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.NewServer(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal("failed to initialize dashboard", zap.Error(err))
	}
	defer srv.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard starting",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
			zap.String("backend", cfg.Backend.BaseURL))
		errCh <- srv.HTTP.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down dashboard...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.HTTP.Shutdown(ctx); err != nil {
			logger.Error("dashboard forced to shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("dashboard stopped", zap.Error(err))
		}
	}
	logger.Info("dashboard stopped")
}
