// Package routes wires the gin router to the routeapi handlers,
// mirroring the teacher's Setup(r, dbPool, logger) entry point.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/loci-route/internal/app/handlers/routeapi"
)

// Setup registers every spec.md §6 endpoint.
func Setup(r *gin.Engine, deps *routeapi.Deps) {
	r.GET("/", routeapi.Banner)
	r.GET("/health", routeapi.Health(deps))
	r.GET("/metrics", routeapi.Metrics())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/locations/search", routeapi.LocationsSearch(deps))
		v1.POST("/semantic/search", routeapi.SemanticSearch(deps))
		v1.POST("/semantic/combined", routeapi.SemanticCombined(deps))

		v1.POST("/route/routes", routeapi.Routes(deps))
		v1.POST("/route/replace-poi", routeapi.ReplacePOI(deps))
		v1.POST("/route/confirm-replace-poi", routeapi.ConfirmReplacePOI(deps))
	}
}
