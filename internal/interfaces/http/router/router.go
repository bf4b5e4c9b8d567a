// Package router assembles the gin engine and manages the HTTP server
// lifecycle.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cscx/riskwatch/internal/config"
	"github.com/cscx/riskwatch/internal/interfaces/http/handlers"
	"github.com/cscx/riskwatch/pkg/logger"
)

// Handlers collects the route handlers the router mounts.
type Handlers struct {
	Assessment *handlers.AssessmentHandler
	Alert      *handlers.AlertHandler
	Config     *handlers.ConfigHandler
	Customer   *handlers.CustomerHandler
	Portfolio  *handlers.PortfolioHandler
	Health     *handlers.HealthHandler
}

// Router owns the gin engine and the HTTP server.
type Router struct {
	engine *gin.Engine
	config *config.ServerConfig
	logger logger.Logger
	server *http.Server
}

// NewRouter builds the engine, wires middleware, and mounts all routes.
func NewRouter(cfg *config.ServerConfig, log logger.Logger, h Handlers, mw *handlers.Middleware) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(mw.Recovery())
	engine.Use(mw.RequestID())
	engine.Use(mw.Logging())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	engine.GET("/health/live", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.PprofEnabled {
		pprof.Register(engine)
	}

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/assessments", h.Assessment.Record)

		v1.GET("/alerts", h.Alert.List)
		v1.POST("/alerts/:id/ack", h.Alert.Acknowledge)

		v1.GET("/config/:key", h.Config.Get)
		v1.PUT("/config/:key", h.Config.Set)

		v1.PUT("/customers/:id", h.Customer.Upsert)
		v1.GET("/customers/:id", h.Customer.Get)
		v1.DELETE("/customers/:id", h.Customer.Delete)
		v1.GET("/customers/:id/assessments", h.Customer.Assessments)
		v1.GET("/customers/:id/assessments/latest", h.Customer.LatestAssessment)
		v1.GET("/customers/:id/alerts", h.Customer.Alerts)

		v1.GET("/portfolio/summary", h.Portfolio.Summary)
		v1.GET("/portfolio/at-risk", h.Portfolio.AtRisk)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code":    "not_found",
			"message": "route not found",
		}})
	})

	return &Router{
		engine: engine,
		config: cfg,
		logger: log.WithComponent("http_server"),
	}
}

// Engine exposes the gin engine, primarily for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Start runs the HTTP server until the context is cancelled, then drains
// in-flight requests.
func (r *Router) Start(ctx context.Context) error {
	r.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", r.config.Host, r.config.Port),
		Handler:      r.engine,
		ReadTimeout:  r.config.ReadTimeout,
		WriteTimeout: r.config.WriteTimeout,
		IdleTimeout:  r.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info(ctx, "http server listening", logger.Fields{"addr": r.server.Addr})
		if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	r.logger.Info(shutdownCtx, "http server draining")
	return r.server.Shutdown(shutdownCtx)
}
