package routeapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	rdomain "github.com/FACorreiaa/loci-route/internal/app/domain/route"
	"github.com/FACorreiaa/loci-route/internal/pkg/apiresult"
)

type routesRequest struct {
	UserID             *string `json:"user_id"`
	Latitude           float64 `json:"latitude" binding:"required"`
	Longitude          float64 `json:"longitude" binding:"required"`
	TransportationMode string  `json:"transportation_mode" binding:"required"`
	SemanticQuery      string  `json:"semantic_query" binding:"required"`
	CustomerLike       bool    `json:"customer_like"`
	CurrentTime        *string `json:"current_time"`
	MaxTimeMinutes     *int    `json:"max_time_minutes"`
	TargetPlaces       *int    `json:"target_places"`
	MaxRoutes          *int    `json:"max_routes"`
	TopKSemantic       *uint64 `json:"top_k_semantic"`
	ReplaceRouteID     *int    `json:"replace_route"`
	DeleteCache        bool    `json:"delete_cache"`
	Duration           bool    `json:"duration"`
}

// Routes handles `POST /api/v1/route/routes` (spec.md §3, §4.6-§4.8).
func Routes(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req routesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		userID := "anonymous"
		if req.UserID != nil && *req.UserID != "" {
			userID = *req.UserID
		}

		ctx := c.Request.Context()

		if req.DeleteCache {
			if err := deps.RouteCache.Delete(ctx, userID); err != nil {
				c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
				return
			}
		}

		profile, ok := deps.Config.Transport.Profiles[req.TransportationMode]
		if !ok {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("unknown transportation_mode: "+req.TransportationMode))
			return
		}

		maxTimeMinutes := defaultMaxTimeMinutes
		if req.MaxTimeMinutes != nil {
			maxTimeMinutes = *req.MaxTimeMinutes
		}
		targetPlaces := defaultTargetPlaces
		if req.TargetPlaces != nil {
			targetPlaces = *req.TargetPlaces
		}
		maxRoutes := defaultMaxRoutes
		if req.MaxRoutes != nil {
			maxRoutes = *req.MaxRoutes
		}
		topK := uint64(defaultTopKSemantic)
		if req.TopKSemantic != nil {
			topK = *req.TopKSemantic
		}

		currentDatetime, err := parseCurrentTime(req.CurrentTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		shortlisted, err := deps.Orchestrator.Run(
			ctx, req.Latitude, req.Longitude, profile.KRing,
			req.SemanticQuery, topK, req.CustomerLike, currentDatetime, maxTimeMinutes,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
			return
		}

		candidates := make([]rdomain.Candidate, 0, len(shortlisted))
		for _, s := range shortlisted {
			candidates = append(candidates, rdomain.Candidate{POI: s.POI, Similarity: s.Similarity, Category: s.AssignedCategory})
		}

		mode := rdomain.ModeTarget
		if req.Duration {
			mode = rdomain.ModeDuration
		}

		buildReq := rdomain.BuildRequest{
			UserLocation:       geo.Point{Lat: req.Latitude, Lon: req.Longitude},
			Candidates:         candidates,
			TransportationMode: req.TransportationMode,
			MaxTimeMinutes:     maxTimeMinutes,
			TargetPlaces:       targetPlaces,
			MaxRoutes:          maxRoutes,
			CurrentDatetime:    &currentDatetime,
			Mode:               mode,
		}

		if req.ReplaceRouteID != nil {
			entry, err := deps.Replacer.ReplaceRoute(ctx, userID, *req.ReplaceRouteID, deps.Config.Route, buildReq)
			if err != nil {
				c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
				return
			}
			c.JSON(http.StatusOK, apiresult.Success(entry))
			return
		}

		routes, err := rdomain.Plan(deps.Config.Route, deps.Config.Transport, buildReq)
		if err != nil {
			c.JSON(http.StatusOK, apiresult.Success([]rdomain.Route{}))
			return
		}

		entry := rdomain.StoreRoutes(req.TransportationMode, routes, candidates)
		if err := deps.RouteCache.Save(ctx, userID, entry); err != nil {
			c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
			return
		}

		c.JSON(http.StatusOK, apiresult.Success(routes))
	}
}

type replacePOIRequest struct {
	UserID          string  `json:"user_id" binding:"required"`
	RouteID         int     `json:"route_id"`
	PoiIDToReplace  string  `json:"poi_id_to_replace" binding:"required"`
	CurrentTime     *string `json:"current_time"`
}

// ReplacePOI handles `POST /api/v1/route/replace-poi` (spec.md §4.8).
func ReplacePOI(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req replacePOIRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		poiID, err := uuid.Parse(req.PoiIDToReplace)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("malformed poi_id_to_replace"))
			return
		}

		var currentDatetime *time.Time
		if req.CurrentTime != nil {
			t, err := parseCurrentTime(req.CurrentTime)
			if err != nil {
				c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
				return
			}
			currentDatetime = &t
		}

		candidates, err := deps.Replacer.ReplacePOI(c.Request.Context(), req.UserID, req.RouteID, poiID, currentDatetime)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		c.JSON(http.StatusOK, apiresult.Success(candidates))
	}
}

type confirmReplacePOIRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	RouteID  int    `json:"route_id"`
	OldPoiID string `json:"old_poi_id" binding:"required"`
	NewPoiID string `json:"new_poi_id" binding:"required"`
}

// ConfirmReplacePOI handles `POST /api/v1/route/confirm-replace-poi`
// (spec.md §4.8).
func ConfirmReplacePOI(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmReplacePOIRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		oldID, err := uuid.Parse(req.OldPoiID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("malformed old_poi_id"))
			return
		}
		newID, err := uuid.Parse(req.NewPoiID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("malformed new_poi_id"))
			return
		}

		updated, err := deps.Replacer.ConfirmReplacePOI(c.Request.Context(), req.UserID, req.RouteID, oldID, newID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		c.JSON(http.StatusOK, apiresult.Success(updated))
	}
}
