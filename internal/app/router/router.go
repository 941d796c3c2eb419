// Package router はアプリケーションのginエンジンを組み立てます。
package router

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	trackerhandler "exercise_tracker/internal/feature/tracker/transport/handler"
	"exercise_tracker/internal/feature/tracker/transport/http/dto"
	"exercise_tracker/internal/platform/http/handler"
	"exercise_tracker/internal/platform/http/middleware"
	"exercise_tracker/internal/platform/observability"
)

// Options はルーターの任意設定です。
type Options struct {
	// StaticDir が空でなければ "/" で index.html を、"/public" で静的ファイルを配信します。
	StaticDir string
	Logger    *slog.Logger
}

func NewRouter(tracker *trackerhandler.TrackerHandler, health *handler.HealthHandler,
	metrics *observability.Metrics, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(opts.Logger))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	// CORS のデフォルト設定を有効（全オリジン許可）
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.OPTIONS("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.POST("/users", tracker.CreateUser)
		api.GET("/users", tracker.ListUsers)
		api.POST("/users/:_id/exercises", tracker.CreateExercise)
		api.GET("/users/:_id/logs", tracker.GetLogs)
	}

	if opts.StaticDir != "" {
		r.Static("/public", filepath.Join(opts.StaticDir, "public"))
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(opts.StaticDir, "views", "index.html"))
		})
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Route not found"})
	})

	return r
}
