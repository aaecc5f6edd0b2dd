package routeapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/loci-route/internal/pkg/apiresult"
)

type locationsSearchRequest struct {
	Latitude           float64 `json:"latitude" binding:"required"`
	Longitude          float64 `json:"longitude" binding:"required"`
	TransportationMode string  `json:"transportation_mode" binding:"required"`
}

type locationHit struct {
	PlaceID      string  `json:"place_id"`
	PlaceName    string  `json:"place_name"`
	DistanceM    float64 `json:"distance_meters"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Category     string  `json:"category"`
}

type locationsSearchResponse struct {
	Pois              []locationHit `json:"pois"`
	CoverageRadiusM   float64       `json:"coverage_radius_meters"`
}

// LocationsSearch handles `POST /api/v1/locations/search` (spec.md §6).
func LocationsSearch(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req locationsSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiresult.Error[any](err.Error()))
			return
		}

		profile, ok := deps.Config.Transport.Profiles[req.TransportationMode]
		if !ok {
			c.JSON(http.StatusBadRequest, apiresult.Error[any]("unknown transportation_mode: "+req.TransportationMode))
			return
		}

		hits, coverageRadiusM, err := deps.Spatial.Query(c.Request.Context(), req.Latitude, req.Longitude, profile.KRing)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apiresult.Error[any](err.Error()))
			return
		}

		pois := make([]locationHit, 0, len(hits))
		for _, h := range hits {
			pois = append(pois, locationHit{
				PlaceID:   h.POI.ID.String(),
				PlaceName: h.POI.Name,
				DistanceM: h.DistanceKM * 1000,
				Lat:       h.POI.Latitude,
				Lon:       h.POI.Longitude,
				Category:  h.POI.PoiTypeClean,
			})
		}

		c.JSON(http.StatusOK, apiresult.Success(locationsSearchResponse{
			Pois:            pois,
			CoverageRadiusM: coverageRadiusM,
		}))
	}
}
