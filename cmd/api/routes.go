package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"leadrouter/internal/httpapi"
	"leadrouter/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	handlers httpapi.Handlers
	authMW   gin.HandlerFunc
	db       *sql.DB
	registry *prometheus.Registry
	devLogin bool
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if d.db != nil {
			if err := d.db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))
	}

	// Token issuance without credentials; never exposed in production.
	if d.devLogin {
		r.POST("/v1/auth/login", d.handlers.Login)
	}

	v1 := r.Group("/v1")
	v1.Use(d.authMW, rbac.RequireTenant())
	{
		leads := v1.Group("/leads")
		leads.Use(rbac.RequireAnyRole(rbac.Routers...))
		{
			leads.POST("/:lead_id/route", d.handlers.RouteLead)
			leads.GET("/:lead_id/route/preview", d.handlers.PreviewRoute)
		}

		rt := v1.Group("/routing")
		rt.Use(rbac.RequireAnyRole(rbac.Routers...))
		{
			rt.GET("/workload", d.handlers.Workload)
		}
	}
}
