package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tripquote/internal/infra/config"
	"tripquote/internal/infra/obs"
)

type ItineraryHTTP interface {
	Preview(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

type PricingHTTP interface {
	GetConfig(c *gin.Context)
	UpdateConfig(c *gin.Context)
	ReplaceSlabs(c *gin.Context)
	Recalculate(c *gin.Context)
}

type Handlers struct {
	Itinerary ItineraryHTTP
	Pricing   PricingHTTP
	// PreviewLimiter throttles the generation endpoints per client IP. Nil
	// disables throttling (tests, internal deployments).
	PreviewLimiter gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Organization-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Itinerary != nil {
		group := api.Group("/itinerary")
		if h.PreviewLimiter != nil {
			group.POST("/preview", h.PreviewLimiter, h.Itinerary.Preview)
			group.POST("/request", h.PreviewLimiter, h.Itinerary.Create)
		} else {
			group.POST("/preview", h.Itinerary.Preview)
			group.POST("/request", h.Itinerary.Create)
		}
		group.GET("/:id", h.Itinerary.Get)
	}
	if h.Pricing != nil {
		group := api.Group("/pricing")
		group.GET("/config", h.Pricing.GetConfig)
		group.PUT("/config", h.Pricing.UpdateConfig)
		group.PUT("/config/child-slabs", h.Pricing.ReplaceSlabs)
		group.POST("/recalculate", h.Pricing.Recalculate)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
