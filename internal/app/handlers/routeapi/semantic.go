package routeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/loci-route/internal/pkg/apiresult"
)

const defaultTopKSemantic = 10

type semanticSearchRequest struct {
	Query string  `json:"query" binding:"required"`
	TopK  *uint64 `json:"top_k"`
}

type semanticHit struct {
	PlaceID    string  `json:"place_id"`
	PlaceName  string  `json:"place_name"`
	Similarity float64 `json:"similarity"`
}

// SemanticSearch handles `POST /api/v1/semantic/search` (spec.md §6):
// unfiltered top-k ANN search.
func SemanticSearch(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req semanticSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		topK := uint64(defaultTopKSemantic)
		if req.TopK != nil {
			topK = *req.TopK
		}

		hits, err := deps.Semantic.Search(c.Request.Context(), req.Query, topK)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
			return
		}

		out := make([]semanticHit, 0, len(hits))
		for _, h := range hits {
			out = append(out, semanticHit{PlaceID: h.POI.ID.String(), PlaceName: h.POI.Name, Similarity: h.Similarity})
		}
		c.JSON(http.StatusOK, apiresult.Success(out))
	}
}

type semanticCombinedRequest struct {
	Latitude           float64 `json:"latitude" binding:"required"`
	Longitude          float64 `json:"longitude" binding:"required"`
	TransportationMode string  `json:"transportation_mode" binding:"required"`
	SemanticQuery      string  `json:"semantic_query" binding:"required"`
	TopK               *uint64 `json:"top_k"`
	CustomerLike       bool    `json:"customer_like"`
	CurrentTime        *string `json:"current_time"`
	MaxTimeMinutes     *int    `json:"max_time_minutes"`
}

// SemanticCombined handles `POST /api/v1/semantic/combined` (spec.md
// §6): the spatial step followed by the ID-filtered semantic step.
func SemanticCombined(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req semanticCombinedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		profile, ok := deps.Config.Transport.Profiles[req.TransportationMode]
		if !ok {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("unknown transportation_mode: "+req.TransportationMode))
			return
		}

		topK := uint64(defaultTopKSemantic)
		if req.TopK != nil {
			topK = *req.TopK
		}
		maxTimeMinutes := defaultMaxTimeMinutes
		if req.MaxTimeMinutes != nil {
			maxTimeMinutes = *req.MaxTimeMinutes
		}

		currentDatetime, err := parseCurrentTime(req.CurrentTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		shortlisted, err := deps.Orchestrator.Run(
			c.Request.Context(), req.Latitude, req.Longitude, profile.KRing,
			req.SemanticQuery, topK, req.CustomerLike, currentDatetime, maxTimeMinutes,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
			return
		}

		out := make([]semanticHit, 0, len(shortlisted))
		for _, s := range shortlisted {
			out = append(out, semanticHit{PlaceID: s.POI.ID.String(), PlaceName: s.POI.Name, Similarity: s.Similarity})
		}
		c.JSON(http.StatusOK, apiresult.Success(out))
	}
}
