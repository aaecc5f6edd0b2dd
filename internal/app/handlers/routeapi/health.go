package routeapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FACorreiaa/loci-route/internal/pkg/cache"
)

// Banner handles `GET /` (spec.md §6).
func Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "loci-route", "status": "running"})
}

// Metrics exposes the default Prometheus registry at `GET /metrics`,
// scraped by whatever collects the otel Prometheus exporter's output
// (internal/app/observability/metrics.InitAppMetrics registers its
// reader against that same default registry).
func Metrics() gin.HandlerFunc {
	handler := promhttp.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// Health handles `GET /health`: per-dependency status, degraded
// overall if any check fails (spec.md §6).
func Health(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if err := cache.HealthCheck(ctx, deps.Redis); err != nil {
			checks["redis"] = fmt.Sprintf("unhealthy: %v", err)
			healthy = false
		} else {
			checks["redis"] = "healthy"
		}

		if err := deps.DBPing(ctx); err != nil {
			checks["database"] = fmt.Sprintf("unhealthy: %v", err)
			healthy = false
		} else {
			checks["database"] = "healthy"
		}

		if _, err := deps.Qdrant.HealthCheck(ctx); err != nil {
			checks["qdrant"] = fmt.Sprintf("unhealthy: %v", err)
			healthy = false
		} else {
			checks["qdrant"] = "healthy"
		}

		status := "healthy"
		if !healthy {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{"status": status, "checks": checks})
	}
}
