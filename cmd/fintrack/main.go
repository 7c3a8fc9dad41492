package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/api"
	"fintrack/internal/config"
	"fintrack/internal/events"
	apphttp "fintrack/internal/http"
	"fintrack/internal/localstore"
	"fintrack/internal/prefs"
	"fintrack/internal/rates"
	"fintrack/internal/session"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Durable local store for session and preferences.
	local, err := localstore.NewSQLiteStore(cfg.LocalStorePath)
	if err != nil {
		logger.Error("Failed to open local store", "error", err, "path", cfg.LocalStorePath)
		os.Exit(1)
	}
	defer local.Close()

	sessions := session.New(local)
	sessions.Restore()

	pref := prefs.New(local, prefs.Config{
		AltCurrency:  cfg.AltCurrency,
		FallbackRate: cfg.RateFallback,
	})
	rateClient := rates.NewClient(cfg.RateAPIURL)

	// Fire-and-forget rate refresh; the fallback rate covers a failure.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		pref.Refresh(ctx, rateClient)
	}()

	backend := api.NewClient(cfg.APIBaseURL, sessions)

	// Activity feed is optional.
	var activity *events.Client
	if cfg.AMQPURL != "" {
		activity, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect activity feed", "error", err)
			os.Exit(1)
		}
		defer activity.Close()
		logger.Info("Activity feed connected", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Activity feed disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, backend, sessions, pref, rateClient, activity)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
