// Package httpapi exposes the plan use cases over HTTP with gin.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/notify"
)

// Deps are the collaborators the router serves. Events may be nil, which
// disables the event stream.
type Deps struct {
	Personalize app.PersonalizeUseCase
	Allocate    app.AllocateUseCase
	Adjust      app.AdjustUseCase
	Streak      app.StreakUseCase
	Plans       app.PlanUseCase
	Deviations  app.DeviationUseCase
	Catalog     app.CatalogUseCase
	Events      *notify.Registry
	Log         *zap.Logger
	CORSOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	h := NewHandler(deps)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.log))
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", HealthCheck)

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users/:user")
		users.GET("/plans/:date", h.GetPlan)
		users.POST("/plans/:date/personalize", h.Personalize)
		users.POST("/weeks/:start/allocate", h.AllocateWeek)
		users.POST("/adjustments", h.ApplyAdjustments)
		users.POST("/deviations", h.LogDeviation)
		users.GET("/streak", h.Streak)
		users.GET("/events", h.StreamEvents)

		v1.POST("/slots/:slot/complete", h.CompleteSlot)
		v1.GET("/templates", h.ListTemplates)
	}
	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	}
}
