// Package httpapi wires the ops HTTP surface (Gin): liveness, Prometheus
// metrics and a status view over the bot's in-memory state. The bot itself
// talks to users over the chat transport; this server exists for deployment
// probes and dashboards only.
//
// Middleware order:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Metrics
//  6. Gzip and CORS
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/http/middleware"
	"github.com/tbourn/go-report-bot/internal/session"
)

// Deps bundles the process state the status endpoint reports on.
type Deps struct {
	Catalog  *catalog.Cache
	Registry *session.PromptRegistry
	Sessions *session.Store

	// StartedAt stamps process start for the uptime field.
	StartedAt time.Time
}

// RegisterRoutes attaches middleware and the ops endpoints to the engine.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Accept"},
		ExposeHeaders:   []string{"X-Request-ID", "Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/status", statusHandler(deps))
}

// statusHandler reports catalog freshness and in-memory state sizes.
func statusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		loads := make(map[string]string, len(catalog.AllTables))
		for _, t := range catalog.AllTables {
			at := deps.Catalog.LastLoad(t)
			if at.IsZero() {
				loads[string(t)] = "never"
				continue
			}
			loads[string(t)] = at.UTC().Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, gin.H{
			"uptime":          time.Since(deps.StartedAt).Round(time.Second).String(),
			"catalog_loads":   loads,
			"active_prompts":  deps.Registry.Len(),
			"active_sessions": deps.Sessions.Len(),
		})
	}
}
