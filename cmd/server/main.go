package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notehub/notehub-api/internal/api"
	"github.com/notehub/notehub-api/internal/core/service"
	"github.com/notehub/notehub-api/internal/infrastructure/config"
	mongodb "github.com/notehub/notehub-api/internal/infrastructure/db/mongo"
	redisdb "github.com/notehub/notehub-api/internal/infrastructure/db/redis"
	"github.com/notehub/notehub-api/internal/infrastructure/queue"
	"github.com/notehub/notehub-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "notehub-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "notehub-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db, cfg.StorageTimeout)
	assetRepo := mongodb.NewAssetRepository(db, cfg.StorageTimeout)
	shareRepo := mongodb.NewShareRepository(db, cfg.StorageTimeout)
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		assetRepo.EnsureIndexes,
		shareRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// --- Audit pipeline ---
	eventRepo := mongodb.NewEventRepository(db, cfg.StorageTimeout)
	audit := service.NewAuditService(eventRepo, redisdb.NewAuditDedup(rdb), log)
	dispatcher := queue.NewDispatcher(0, audit, log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, cfg, log, dispatcher)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
