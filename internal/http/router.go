package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/licitaperu/tenders-api/internal/http/middleware"
)

// NewRouter wires the HTTP surface. Write endpoints sit behind the auth
// middleware; everything else is public read traffic.
func NewRouter(h *Handler, authMiddleware gin.HandlerFunc, environment string, allowedOrigins []string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/tenders", h.listTenders)
		api.GET("/tenders/suggestions", h.suggest)
		api.GET("/tenders/filters/all", h.filterOptions)
		api.GET("/tenders/:id", h.getTender)

		api.GET("/locations", h.locations)
		api.GET("/aggregate/financial-entities", h.financialEntityRanking)
		api.GET("/dashboard/kpis", h.dashboardKPIs)
		api.GET("/dashboard/monthly-trend", h.monthlyTrend)

		protected := api.Group("")
		protected.Use(authMiddleware)
		{
			protected.POST("/tenders", h.createTender)
			protected.PUT("/tenders/:id", h.updateTender)
			protected.DELETE("/tenders/:id", h.deleteTender)
			protected.POST("/export", h.export)
		}
	}

	return router
}
