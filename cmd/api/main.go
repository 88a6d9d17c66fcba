// @title        HBnB API
// @version      1.0
// @description  REST API over states, cities, amenities, users, places and reviews.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hbnb/hbnb-api/internal/api"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db"
	rediscache "github.com/hbnb/hbnb-api/internal/infrastructure/db/redis"
	"github.com/hbnb/hbnb-api/internal/pkg/config"
	"github.com/hbnb/hbnb-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "hbnb-api",
	})

	engine, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("failed to open storage")
	}

	deps := api.Dependencies{
		Storage:     engine,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	}

	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		deps.Idempotency = rediscache.NewIdempotencyStore(rdb)
		deps.IdempotencyTTL = rediscache.DefaultTTL
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotent replay enabled")
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := engine.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close storage")
	}
	log.Info().Msg("server stopped")
}
