package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/interop-api/internal/handler"
	interophandler "github.com/jwalitptl/interop-api/internal/handler/interop"
	"github.com/jwalitptl/interop-api/internal/middleware"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

type Router struct {
	engine   *gin.Engine
	h        *handler.Handler
	interopH *interophandler.Handler
}

func NewRouter(h *handler.Handler, interopH *interophandler.Handler, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:   engine,
		h:        h,
		interopH: interopH,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	health := api.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}

	r.interopH.RegisterRoutes(api)
	r.interopH.RegisterWebhookRoutes(r.engine)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
