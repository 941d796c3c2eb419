package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"exercise_tracker/internal/app/di"
	"exercise_tracker/internal/app/router"
	"exercise_tracker/internal/feature/tracker/adapters"
	trackerhandler "exercise_tracker/internal/feature/tracker/transport/handler"
	"exercise_tracker/internal/feature/tracker/usecase"
	"exercise_tracker/internal/platform/config"
	"exercise_tracker/internal/platform/db"
	"exercise_tracker/internal/platform/http/handler"
	"exercise_tracker/internal/platform/logging"
	"exercise_tracker/internal/platform/observability"
	infraredis "exercise_tracker/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 設定
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	// db
	gdb, err := db.Open(cfg.Database, adapters.Models()...)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	slog.Info("database ready", "driver", cfg.Database.Driver)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); errors.Is(err, infraredis.ErrDisabled) {
		slog.Info("Redis not configured. Running without log cache.")
	} else if err != nil {
		slog.Warn("Redis unavailable. Running without log cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Kafka
	publisher := di.NewEventPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}()

	metrics := observability.NewMetrics()

	// Repository
	userRepo := adapters.NewUserRepository(gdb)
	exerciseRepo := di.NewExerciseRepository(gdb, rdb, cfg.Cache, metrics)

	// Usecase
	trackerUC := usecase.NewTrackerUsecase(userRepo, exerciseRepo, publisher, metrics)

	// Handler
	trackerH := trackerhandler.NewTrackerHandler(trackerUC)
	healthH := handler.NewHealthHandler(sqlDB)

	// ルータ生成
	r := router.NewRouter(trackerH, healthH, metrics, router.Options{
		StaticDir: cfg.Server.StaticDir,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// SIGINT/SIGTERM でグレースフルシャットダウン
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	slog.Info("server exited")
	return nil
}
