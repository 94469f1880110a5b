package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/fring-api/internal/app"
	"github.com/gravadigital/fring-api/internal/config"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/server"
)

func main() {
	cfg := config.Load()

	logger.Setup(logger.Options{Level: cfg.LogLevel, JSON: cfg.JSONLogs()})
	log := logger.Get()

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty, every authenticated request will be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	state, err := app.Init(ctx, cfg)
	cancel()
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, state.Services, state.Hub)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server stopped", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server shutdown error", "error", err)
	}
	if err := state.Close(); err != nil {
		log.Error("Resource shutdown error", "error", err)
	}

	log.Info("Server stopped")
}
