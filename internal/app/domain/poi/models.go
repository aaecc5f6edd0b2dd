// Package poi defines the POI data model and the POI info store
// (spec.md §3 "POI", §4.4).
package poi

import (
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
)

// POI is a visitable place with coordinates, category, popularity
// score, and opening hours. Field-for-field per spec.md §3.
type POI struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Address             string               `json:"address"`
	Latitude            float64              `json:"latitude"`
	Longitude           float64              `json:"longitude"`
	PoiType             string               `json:"poi_type"`
	PoiTypeClean        string               `json:"poi_type_clean"`
	MainSubcategory     string               `json:"main_subcategory"`
	Specialization      string               `json:"specialization"`
	NormalizeStarsRating float64             `json:"normalize_stars_reviews"`
	StayTimeMinutes     int                  `json:"stay_time"`
	OpenHours           []timeutil.DayHours  `json:"open_hours"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	DeletedAt           *time.Time           `json:"deleted_at,omitempty"`
}

// DefaultStayMinutes is used when the stored stay_time is null.
const DefaultStayMinutes = 30

// FoodCategories are the three categories the food-duplicate rule
// (spec.md §4.7, §9) considers "food".
var FoodCategories = map[string]bool{
	"Restaurant":     true,
	"Bar":            true,
	"Cafe & Bakery":  true,
}

// IsFood reports whether the POI's poi_type_clean names a food
// category.
func (p *POI) IsFood() bool {
	return FoodCategories[p.PoiTypeClean]
}

// IsRestaurant reports whether this POI is specifically a Restaurant,
// the category the meal-window insertion logic cares about.
func (p *POI) IsRestaurant() bool {
	return p.PoiTypeClean == "Restaurant"
}

// StayMinutes returns StayTimeMinutes, defaulting to 30 when unset.
func (p *POI) StayMinutes() int {
	if p.StayTimeMinutes <= 0 {
		return DefaultStayMinutes
	}
	return p.StayTimeMinutes
}
