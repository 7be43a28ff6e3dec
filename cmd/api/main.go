// @title           Comment Gateway API
// @version         1.0
// @description     Threaded comment gateway: proxy routes to the Comment Service plus server-rendered comment pages.

// @host      localhost:8000
// @BasePath  /api/comments

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"comment-gateway/internal/cache"
	"comment-gateway/internal/client"
	"comment-gateway/internal/config"
	"comment-gateway/internal/logger"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting Comment Gateway",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("comment_api_url", cfg.CommentAPI.BaseURL),
	)

	m := metrics.NewWithLogger(log)
	log.Info("Metrics initialized")

	commentClient := client.NewCommentClient(cfg.CommentAPI.BaseURL, cfg.CommentAPI.Timeout, log, m)

	// The cache is optional; an unreachable redis falls back to the in-process store
	listCache, closeCache, err := cache.FromConfig(context.Background(), cfg, m, log)
	if err != nil {
		log.Warn("Failed to initialize list cache, continuing without it", zap.Error(err))
		listCache, closeCache = nil, nil
	}

	r, err := router.Setup(router.Config{
		Logger:         log,
		Metrics:        m,
		CommentClient:  commentClient,
		Cache:          listCache,
		JWTSecret:      cfg.JWT.Secret,
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		log.Fatal("Failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Comment Gateway started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%d%s/swagger/index.html", cfg.Server.Port, cfg.Server.BasePath)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if closeCache != nil {
		if err := closeCache(); err != nil {
			log.Warn("Failed to close cache store", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
