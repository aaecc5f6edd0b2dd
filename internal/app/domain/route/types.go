// Package route implements spec.md §4.7 (route builder) and §4.8
// (POI replacement service): a greedy constructive planner over a
// shortlist of candidate POIs, in two modes (target place count,
// time budget), plus the per-user cached replacement flow.
//
// Grounded on original_source/radius_logic/route/route_builder_base.py,
// route_builder_greedy.py, calculator.py, and route_config.py.
package route

import (
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// Candidate is one shortlist entry the planner chooses from: a POI,
// its similarity score from the semantic stage, and the category it
// was assigned under.
type Candidate struct {
	POI        poi.POI
	Similarity float64
	Category   string
}

// Mode selects which planner algorithm builds a single route.
type Mode string

const (
	ModeTarget   Mode = "target"
	ModeDuration Mode = "duration"
)

// BuildRequest is the input shared by both planner modes.
type BuildRequest struct {
	UserLocation       geo.Point
	Candidates         []Candidate
	TransportationMode string
	MaxTimeMinutes     int
	TargetPlaces       int
	MaxRoutes          int
	CurrentDatetime    *time.Time
	Mode               Mode
}

// VisitedPOI is one stop in a formatted route, per spec.md §3 "Route".
type VisitedPOI struct {
	PlaceID           uuid.UUID       `json:"place_id"`
	PlaceName         string          `json:"place_name"`
	PoiType           string          `json:"poi_type"`
	PoiTypeClean      string          `json:"poi_type_clean"`
	MainSubcategory   string          `json:"main_subcategory"`
	Specialization    string          `json:"specialization"`
	Category          string          `json:"category"`
	Address           string          `json:"address"`
	Lat               float64         `json:"lat"`
	Lon               float64         `json:"lon"`
	Similarity        float64         `json:"similarity"`
	Rating            float64         `json:"rating"`
	CombinedScore     float64         `json:"combined_score"`
	TravelTimeMinutes float64         `json:"travel_time_minutes"`
	StayTimeMinutes   int             `json:"stay_time_minutes"`
	ArrivalTime       *time.Time      `json:"arrival_time,omitempty"`
	OpenHours         []timeutil.DayHours `json:"open_hours"`
}

// Route is one fully formatted, feasible plan.
type Route struct {
	PlaceIndices      []int        `json:"route"`
	TotalTimeMinutes  float64      `json:"total_time_minutes"`
	TravelTimeMinutes float64      `json:"travel_time_minutes"`
	StayTimeMinutes   float64      `json:"stay_time_minutes"`
	TotalScore        float64      `json:"total_score"`
	AvgScore          float64      `json:"avg_score"`
	Efficiency        float64      `json:"efficiency"`
	Places            []VisitedPOI `json:"places"`
}

// mealAnalysis is the result of spec.md §4.7's "Meal analysis" step.
type mealAnalysis struct {
	allCategories                []string
	hasCafeAndBakery             bool
	hasRestaurant                bool
	shouldInsertRestaurantForMeal bool
	needsLunchRestaurant          bool
	needsDinnerRestaurant         bool
	lunchWindow                   *[2]time.Time
	dinnerWindow                  *[2]time.Time
}

// builder bundles the route config and geo helpers every planner
// step needs, mirroring BaseRouteBuilder's constructor injection.
type builder struct {
	cfg config.RouteConfig
}

func newBuilder(cfg config.RouteConfig) *builder {
	return &builder{cfg: cfg}
}
