// Package main provides the campaign chatbot API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/cache"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/config"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/storage"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/pkg/engine"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Path).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting policy bot API")

	store, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open fact store")
	}
	defer store.Close()

	cacheClient := newCacheClient(cfg, logger)
	defer cacheClient.Close()

	eng := engine.New(cfg, store, cacheClient, logger)

	loaded, err := eng.EnsureSeeded(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed knowledge store")
	}
	if loaded > 0 {
		logger.Info().Int("items", loaded).Msg("Loaded initial campaign data")
	}

	router := NewRouter(eng, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

func newCacheClient(cfg *config.Config, logger *observability.Logger) cache.Client {
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err == nil {
			return client
		}
		logger.Warn().Err(err).Msg("Redis unavailable, falling back to memory cache")
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries)
}
