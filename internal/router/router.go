package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "comment-gateway/docs" // Swagger docs import

	"comment-gateway/internal/cache"
	"comment-gateway/internal/client"
	"comment-gateway/internal/handler"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/middleware"
	"comment-gateway/internal/render"
	"comment-gateway/internal/session"
)

// Config holds router dependencies
type Config struct {
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	CommentClient client.CommentClient
	Cache         *cache.ListCache
	JWTSecret     string
	// BasePath prefixes the proxy API
	BasePath string
	// PagesPrefix prefixes the server-rendered pages
	PagesPrefix    string
	AllowedOrigins []string
	// Gatherer backs /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
}

// Setup builds the gin engine with every route of the gateway
func Setup(cfg Config) (*gin.Engine, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.HTMLRender = renderer

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.OptionalSession(session.NewParser(cfg.JWTSecret), cfg.Logger))

	commentHandler := handler.NewCommentHandler(cfg.CommentClient, cfg.Cache, cfg.Metrics, cfg.Logger)
	pageHandler := handler.NewPageHandler(cfg.CommentClient, cfg.Cache, cfg.Metrics, cfg.Logger, cfg.PagesPrefix)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{"cache": cfg.Cache})

	metricsHandler := gin.WrapH(promhttp.Handler())
	if cfg.Gatherer != nil {
		metricsHandler = gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	{
		if cfg.BasePath != "" && cfg.BasePath != "/" {
			api.GET("/health", healthHandler.Health)
			api.GET("/ready", healthHandler.Ready)
			api.GET("/metrics", metricsHandler)
		}
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		api.GET("/posts/:postId/tree", commentHandler.GetTree)
		api.GET("/posts/:postId/flat", commentHandler.GetFlat)
		api.GET("/:commentId", commentHandler.GetComment)

		authenticated := api.Group("")
		authenticated.Use(middleware.RequireBearer())
		{
			authenticated.POST("/posts/:postId", commentHandler.CreateComment)
			authenticated.PUT("/:commentId", commentHandler.UpdateComment)
			authenticated.PATCH("/:commentId", commentHandler.PatchComment)
			authenticated.DELETE("/:commentId", commentHandler.DeleteComment)
			authenticated.PATCH("/:commentId/restore", commentHandler.RestoreComment)
		}
	}

	pages := r.Group(cfg.PagesPrefix)
	pages.Use(middleware.SameOrigin(cfg.AllowedOrigins))
	{
		pages.GET("/posts/:postId/comments", pageHandler.Show)
		pages.POST("/posts/:postId/comments", pageHandler.Create)
		pages.POST("/posts/:postId/comments/:commentId/edit", pageHandler.Edit)
		pages.POST("/posts/:postId/comments/:commentId/delete", pageHandler.Delete)
	}

	return r, nil
}
