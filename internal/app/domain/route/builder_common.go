package route

import (
	"time"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// scoreWeights is one (distance, similarity, rating, bearing) weight
// tuple from spec.md §4.7.
type scoreWeights struct {
	distance   float64
	similarity float64
	rating     float64
	bearing    float64
}

var (
	firstPOIWeights = scoreWeights{distance: 0.5, similarity: 0.1, rating: 0.4}
	lastPOIWeights  = scoreWeights{distance: 0.6, similarity: 0.1, rating: 0.3}

	middleWeightsStraight   = scoreWeights{distance: 0.4, similarity: 0.1, rating: 0.25, bearing: 0.25}
	middleWeightsOrthogonal = scoreWeights{distance: 0.3, similarity: 0.1, rating: 0.2, bearing: 0.4}
)

// travelTimeMinutes converts a kilometer distance into minutes at the
// speed configured for mode (falling back to 30 km/h as the source
// does for an unrecognized mode).
func travelTimeMinutes(distanceKM float64, mode string, transport config.TransportConfig) float64 {
	speed := 30.0
	if profile, ok := transport.Profiles[mode]; ok && profile.SpeedKMH > 0 {
		speed = profile.SpeedKMH
	}
	return (distanceKM / speed) * 60
}

func stayTimeMinutes(c Candidate) int {
	return c.POI.StayMinutes()
}

// analyzeMeals implements spec.md §4.7's "Meal analysis" step,
// grounded on route_builder_base.py's analyze_meal_requirements.
func analyzeMeals(candidates []Candidate, start *time.Time, maxTimeMinutes int) mealAnalysis {
	seen := make(map[string]bool)
	var result mealAnalysis
	for _, c := range candidates {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		result.allCategories = append(result.allCategories, c.Category)
	}
	result.hasCafeAndBakery = seen["Cafe & Bakery"]
	result.hasRestaurant = seen["Restaurant"]

	if result.hasCafeAndBakery || !result.hasRestaurant || start == nil {
		return result
	}

	needsLunch, needsDinner := timeutil.NeedsMealRestaurant(*start, maxTimeMinutes)
	if !needsLunch && !needsDinner {
		return result
	}

	result.shouldInsertRestaurantForMeal = true
	result.needsLunchRestaurant = needsLunch
	result.needsDinnerRestaurant = needsDinner

	lunchStart := clockOn(*start, timeutil.LunchWindow[0])
	lunchEnd := clockOn(*start, timeutil.LunchWindow[1])
	dinnerStart := clockOn(*start, timeutil.DinnerWindow[0])
	dinnerEnd := clockOn(*start, timeutil.DinnerWindow[1])
	if needsLunch {
		result.lunchWindow = &[2]time.Time{lunchStart, lunchEnd}
	}
	if needsDinner {
		result.dinnerWindow = &[2]time.Time{dinnerStart, dinnerEnd}
	}

	return result
}

func clockOn(day time.Time, minuteOfDay int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minuteOfDay/60, minuteOfDay%60, 0, 0, day.Location())
}

func inWindow(t time.Time, w *[2]time.Time) bool {
	if w == nil {
		return false
	}
	return !t.Before(w[0]) && !t.After(w[1])
}

// isSameFoodType reproduces the source's conservative 3-tier
// equality rule, including its null==null-counts-as-match quirk
// (spec.md §9 "food-duplicate rule"). Both POIs must already be food
// categories (Restaurant, Bar, Cafe & Bakery) for the rule to apply.
func isSameFoodType(prev, next Candidate) bool {
	if !prev.POI.IsFood() || !next.POI.IsFood() {
		return false
	}
	if prev.POI.PoiTypeClean != next.POI.PoiTypeClean {
		return false
	}
	if prev.POI.MainSubcategory != next.POI.MainSubcategory {
		return false
	}
	if prev.POI.Specialization != next.POI.Specialization {
		return false
	}
	return true
}

// combinedScore implements calculator.py's calculate_combined_score,
// restricted to the three weight profiles spec.md §4.7 names
// (first, middle, last) — the source's similarity-threshold branch
// for middle POIs is folded into a single straight-line/orthogonal
// choice gated by cfg.UseCircularRouting, per SPEC_FULL.md §10.
func combinedScore(
	cfg config.RouteConfig,
	candidate Candidate,
	distanceKM float64,
	maxDistanceKM float64,
	isFirst, isLast bool,
	bearingDiffDeg *float64,
) float64 {
	similarity := candidate.Similarity
	rating := candidate.POI.NormalizeStarsRating
	if rating == 0 {
		rating = cfg.DefaultRating
	}

	normalizedDistance := 0.0
	if maxDistanceKM > 0 {
		normalizedDistance = distanceKM / maxDistanceKM
	}
	distanceScore := 1 - normalizedDistance

	var weights scoreWeights
	bearingScore := cfg.DefaultBearingScore

	switch {
	case isFirst:
		weights = firstPOIWeights
	case isLast:
		weights = lastPOIWeights
	default:
		if bearingDiffDeg != nil {
			bearingScore = bearingScoreFor(*bearingDiffDeg, cfg.UseCircularRouting)
		}
		if cfg.UseCircularRouting {
			weights = middleWeightsOrthogonal
		} else {
			weights = middleWeightsStraight
		}
	}

	score := weights.distance*distanceScore + weights.similarity*similarity + weights.rating*rating
	if !isFirst && !isLast {
		score += weights.bearing * bearingScore
	}
	return score
}

// bearingScoreFor scores a bearing difference against the configured
// routing preference: straight-line (0° ideal) or orthogonal (90°
// ideal), per calculate_circular_bearing_score / the zigzag formula.
func bearingScoreFor(diffDeg float64, circular bool) float64 {
	if circular {
		diffFrom90 := absFloat(diffDeg - 90)
		score := 1.0 - diffFrom90/90.0
		if score < 0 {
			return 0
		}
		return score
	}
	return 1.0 - diffDeg/180.0
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxDistance(matrix [][]float64) float64 {
	max := 0.0
	for _, row := range matrix {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

func maxUserRadius(matrix [][]float64) float64 {
	max := 0.0
	for _, v := range matrix[0][1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func bearingBetween(a, b geo.Point) float64 {
	return geo.InitialBearingDeg(a, b)
}
