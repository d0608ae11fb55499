package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/givetix/donation-bridge/internal/config"
	"github.com/givetix/donation-bridge/internal/gateway"
	"github.com/givetix/donation-bridge/internal/handler"
	"github.com/givetix/donation-bridge/internal/logging"
	"github.com/givetix/donation-bridge/internal/middleware"
	"github.com/givetix/donation-bridge/internal/service"
	"github.com/givetix/donation-bridge/internal/signature"
	"github.com/givetix/donation-bridge/internal/store"
	"github.com/givetix/donation-bridge/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("donation-bridge", cfg.LogLevel, cfg.AppEnv)

	verifier := signature.NewVerifier(cfg.WebhookSecret)
	codec := token.NewCodec(cfg.TokenSecret)
	attempts := store.NewAttemptStore()
	gatewayClient := gateway.NewClient(
		cfg.GatewayURL,
		cfg.GatewayAPIKey,
		time.Duration(cfg.GatewayTimeoutS)*time.Second,
	)

	dispatcher := service.NewDispatcher(
		verifier,
		codec,
		attempts,
		gatewayClient,
		cfg.SourcePlatform,
		cfg.CampaignID,
		time.Duration(cfg.ReplayToleranceMin)*time.Minute,
	)

	webhookHandler := handler.NewWebhookHandler(dispatcher)
	attemptsHandler := handler.NewAttemptsHandler(attempts)

	r := chi.NewRouter()
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", handler.Health)
	r.Post("/webhooks/tickets", webhookHandler.ReceiveTicketWebhook)
	r.Get("/api/v1/attempts", attemptsHandler.ListAttempts)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
