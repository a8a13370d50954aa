// Package http exposes the cutting planner as a JSON API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/metrics"
	"github.com/piwi3910/cutplan/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter creates and configures the Gin router.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(),
	)

	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	registerRoutes(api, handler)

	return router
}

func registerRoutes(api *gin.RouterGroup, handler *Handler) {
	if handler == nil {
		return
	}
	api.GET("/sheets", handler.ListSheets)

	plans := api.Group("/plans")
	plans.POST("", handler.CreatePlan)
	plans.POST("/pdf", handler.PlanPDF)
	plans.POST("/xlsx", handler.PlanXLSX)
	plans.POST("/compare", handler.ComparePlans)
}
