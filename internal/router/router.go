package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taxpoint/docs"
	"taxpoint/internal/config"
	"taxpoint/internal/handler"
	"taxpoint/internal/metrics"
	"taxpoint/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	orderH *handler.OrderHandler,
	statsH *handler.StatsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.POST("", orderH.Create)
	orders.GET("", orderH.List)
	orders.POST("/import", orderH.Import)
	orders.GET("/export/csv", orderH.ExportCSV)
	orders.GET("/export/xlsx", orderH.ExportXLSX)
	orders.GET("/:id", orderH.GetByID)

	v1.GET("/stats", statsH.GetStats)

	return r
}
