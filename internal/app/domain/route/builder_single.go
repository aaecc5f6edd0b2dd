package route

import (
	"time"

	"github.com/FACorreiaa/loci-route/internal/app/domain/geo"
	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

// buildSingleRoute is the shared greedy constructive procedure behind
// both planner modes (spec.md §4.7, grounded on
// build_single_route_greedy / build_single_route_greedy_duration,
// which differ only in how the middle-selection loop terminates).
func (b *builder) buildSingleRoute(
	req BuildRequest,
	transport config.TransportConfig,
	firstPlaceIdx *int,
	distanceMatrix [][]float64,
) *Route {
	candidates := req.Candidates
	if req.Mode == ModeTarget && req.TargetPlaces > len(candidates) {
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	maxDist := maxDistance(distanceMatrix)
	maxRadius := maxUserRadius(distanceMatrix)

	meals := analyzeMeals(candidates, req.CurrentDatetime, req.MaxTimeMinutes)

	visited := make(map[int]bool)
	var path []int
	currentPos := 0
	totalTravel := 0.0
	totalStay := 0.0

	first := b.selectFirstPOI(req, candidates, distanceMatrix, maxDist, transport, meals, firstPlaceIdx)
	if first == nil {
		return nil
	}

	path = append(path, *first)
	visited[*first] = true
	travel := travelTimeMinutes(distanceMatrix[0][*first+1], req.TransportationMode, transport)
	totalTravel += travel
	totalStay += float64(stayTimeMinutes(candidates[*first]))
	currentPos = *first + 1

	prevBearing := bearingBetween(req.UserLocation, geo.Point{Lat: candidates[*first].POI.Latitude, Lon: candidates[*first].POI.Longitude})

	categorySequence := []string{candidates[*first].Category}
	restaurantInsertedForMeal := meals.shouldInsertRestaurantForMeal && candidates[*first].Category == "Restaurant"

	switch req.Mode {
	case ModeTarget:
		for step := 0; step < req.TargetPlaces-2; step++ {
			next := b.selectMiddlePOI(req, candidates, distanceMatrix, maxDist, transport, meals, visited, path, currentPos, totalTravel, totalStay, prevBearing, categorySequence, &restaurantInsertedForMeal)
			if next == nil {
				break
			}
			path, visited, categorySequence, currentPos, totalTravel, totalStay, prevBearing =
				b.appendMiddle(req, candidates, distanceMatrix, transport, *next, path, visited, categorySequence, currentPos, totalTravel, totalStay)
		}
	case ModeDuration:
		const lastPOIBudgetFraction = 0.3
		maxIterations := len(candidates)
		for iter := 0; iter < maxIterations; iter++ {
			remaining := float64(req.MaxTimeMinutes) - (totalTravel + totalStay)
			if remaining < float64(req.MaxTimeMinutes)*lastPOIBudgetFraction {
				break
			}
			next := b.selectMiddlePOI(req, candidates, distanceMatrix, maxDist, transport, meals, visited, path, currentPos, totalTravel, totalStay, prevBearing, categorySequence, &restaurantInsertedForMeal)
			if next == nil {
				break
			}
			path, visited, categorySequence, currentPos, totalTravel, totalStay, prevBearing =
				b.appendMiddle(req, candidates, distanceMatrix, transport, *next, path, visited, categorySequence, currentPos, totalTravel, totalStay)
		}
	}

	last := b.selectLastPOI(req, candidates, distanceMatrix, maxDist, maxRadius, transport, meals, visited, currentPos, totalTravel, totalStay, restaurantInsertedForMeal)
	if last != nil {
		path = append(path, *last)
		visited[*last] = true
		travel := travelTimeMinutes(distanceMatrix[currentPos][*last+1], req.TransportationMode, transport)
		totalTravel += travel
		totalStay += float64(stayTimeMinutes(candidates[*last]))
		currentPos = *last + 1
	}

	returnTime := travelTimeMinutes(distanceMatrix[currentPos][0], req.TransportationMode, transport)
	totalTravel += returnTime
	totalTime := totalTravel + totalStay

	if totalTime > float64(req.MaxTimeMinutes) {
		return nil
	}

	return b.formatRoute(req, candidates, distanceMatrix, transport, path, maxDist, totalTravel, totalStay, totalTime)
}

// appendMiddle commits the chosen middle candidate and returns the
// updated loop state.
func (b *builder) appendMiddle(
	req BuildRequest,
	candidates []Candidate,
	matrix [][]float64,
	transport config.TransportConfig,
	next int,
	path []int,
	visited map[int]bool,
	categorySequence []string,
	currentPos int,
	totalTravel, totalStay float64,
) ([]int, map[int]bool, []string, int, float64, float64, float64) {
	path = append(path, next)
	visited[next] = true
	categorySequence = append(categorySequence, candidates[next].Category)

	travel := travelTimeMinutes(matrix[currentPos][next+1], req.TransportationMode, transport)
	totalTravel += travel
	totalStay += float64(stayTimeMinutes(candidates[next]))

	var prevBearing float64
	if len(path) >= 2 {
		prevIdx := path[len(path)-2]
		prevBearing = bearingBetween(
			geo.Point{Lat: candidates[prevIdx].POI.Latitude, Lon: candidates[prevIdx].POI.Longitude},
			geo.Point{Lat: candidates[next].POI.Latitude, Lon: candidates[next].POI.Longitude},
		)
	} else {
		prevBearing = bearingBetween(req.UserLocation, geo.Point{Lat: candidates[next].POI.Latitude, Lon: candidates[next].POI.Longitude})
	}

	return path, visited, categorySequence, next + 1, totalTravel, totalStay, prevBearing
}

// selectFirstPOI implements spec.md §4.7's "First-POI selection".
func (b *builder) selectFirstPOI(
	req BuildRequest,
	candidates []Candidate,
	matrix [][]float64,
	maxDist float64,
	transport config.TransportConfig,
	meals mealAnalysis,
	forcedIdx *int,
) *int {
	if forcedIdx != nil {
		return forcedIdx
	}

	isInMealTime := false
	if meals.shouldInsertRestaurantForMeal && req.CurrentDatetime != nil {
		if inWindow(*req.CurrentDatetime, meals.lunchWindow) || inWindow(*req.CurrentDatetime, meals.dinnerWindow) {
			isInMealTime = true
		}
	}

	best := -1
	bestScore := -1.0

	for i, c := range candidates {
		if req.CurrentDatetime != nil {
			travel := travelTimeMinutes(matrix[0][i+1], req.TransportationMode, transport)
			arrival := req.CurrentDatetime.Add(time.Duration(travel * float64(time.Minute)))
			if !timeutil.HasEnoughTimeToStay(c.POI.OpenHours, arrival, c.POI.StayMinutes()) {
				continue
			}
		}

		if meals.shouldInsertRestaurantForMeal {
			isRestaurant := c.Category == "Restaurant"
			if isInMealTime && !isRestaurant {
				continue
			}
			if !isInMealTime && isRestaurant {
				continue
			}
		}

		score := combinedScore(b.cfg, c, matrix[0][i+1], maxDist, true, false, nil)
		if score > bestScore || (score == bestScore && (best == -1 || i < best)) {
			bestScore = score
			best = i
		}
	}

	if best == -1 {
		return nil
	}
	return &best
}

// selectMiddlePOI implements spec.md §4.7's "Middle POIs" step,
// enforcing meal priority, category alternation, the food-duplicate
// rule, and time feasibility, with a required-category pass followed
// by an any-category fallback.
func (b *builder) selectMiddlePOI(
	req BuildRequest,
	candidates []Candidate,
	matrix [][]float64,
	maxDist float64,
	transport config.TransportConfig,
	meals mealAnalysis,
	visited map[int]bool,
	path []int,
	currentPos int,
	totalTravel, totalStay, prevBearing float64,
	categorySequence []string,
	restaurantInsertedForMeal *bool,
) *int {
	var arrivalAtNext *time.Time
	if req.CurrentDatetime != nil {
		t := req.CurrentDatetime.Add(time.Duration((totalTravel + totalStay) * float64(time.Minute)))
		arrivalAtNext = &t
	}

	shouldPrioritizeRestaurant := false
	if !*restaurantInsertedForMeal && arrivalAtNext != nil {
		if inWindow(*arrivalAtNext, meals.lunchWindow) || inWindow(*arrivalAtNext, meals.dinnerWindow) {
			shouldPrioritizeRestaurant = true
		}
	}

	requiredCategory := ""
	excludeRestaurant := meals.shouldInsertRestaurantForMeal

	if shouldPrioritizeRestaurant {
		hasAvailable := false
		for i, c := range candidates {
			if !visited[i] && c.Category == "Restaurant" {
				hasAvailable = true
				break
			}
		}
		if hasAvailable {
			requiredCategory = "Restaurant"
			*restaurantInsertedForMeal = true
			excludeRestaurant = false
		}
	} else if meals.shouldInsertRestaurantForMeal && *restaurantInsertedForMeal {
		excludeRestaurant = true
	}

	if requiredCategory == "" && len(categorySequence) > 0 && len(meals.allCategories) > 0 {
		lastCategory := categorySequence[len(categorySequence)-1]
		idx := indexOf(meals.allCategories, lastCategory)
		if idx == -1 {
			requiredCategory = meals.allCategories[0]
		} else {
			requiredCategory = meals.allCategories[(idx+1)%len(meals.allCategories)]
		}
	}

	var lastAdded *Candidate
	if len(path) > 0 {
		lastAdded = &candidates[path[len(path)-1]]
	}

	pick := func(requireCategory bool) *int {
		best := -1
		bestScore := -1.0
		for i, c := range candidates {
			if visited[i] {
				continue
			}
			if excludeRestaurant && c.Category == "Restaurant" {
				continue
			}
			if requireCategory && requiredCategory != "" && c.Category != requiredCategory {
				continue
			}
			if lastAdded != nil && isSameFoodType(*lastAdded, c) {
				continue
			}
			if req.CurrentDatetime != nil {
				travel := travelTimeMinutes(matrix[currentPos][i+1], req.TransportationMode, transport)
				arrival := req.CurrentDatetime.Add(time.Duration((totalTravel + totalStay + travel) * float64(time.Minute)))
				if !timeutil.HasEnoughTimeToStay(c.POI.OpenHours, arrival, c.POI.StayMinutes()) {
					continue
				}
			}

			tempTravel := totalTravel + travelTimeMinutes(matrix[currentPos][i+1], req.TransportationMode, transport)
			tempStay := totalStay + float64(stayTimeMinutes(c))
			estimatedReturn := travelTimeMinutes(matrix[i+1][0], req.TransportationMode, transport)
			if tempTravel+tempStay+estimatedReturn > float64(req.MaxTimeMinutes) {
				continue
			}

			bearingDiff := geo.BearingDifferenceDeg(prevBearing, bearingBetween(
				currentPoint(req, candidates, currentPos),
				geo.Point{Lat: c.POI.Latitude, Lon: c.POI.Longitude},
			))
			score := combinedScore(b.cfg, c, matrix[currentPos][i+1], maxDist, false, false, &bearingDiff)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best == -1 {
			return nil
		}
		return &best
	}

	if requiredCategory != "" {
		if found := pick(true); found != nil {
			return found
		}
	}
	return pick(false)
}

func currentPoint(req BuildRequest, candidates []Candidate, currentPos int) geo.Point {
	if currentPos == 0 {
		return req.UserLocation
	}
	c := candidates[currentPos-1].POI
	return geo.Point{Lat: c.Latitude, Lon: c.Longitude}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

// selectLastPOI implements spec.md §4.7's "Last-POI selection": an
// increasing sequence of distance thresholds, each re-scanned for the
// best feasible candidate.
func (b *builder) selectLastPOI(
	req BuildRequest,
	candidates []Candidate,
	matrix [][]float64,
	maxDist, maxRadius float64,
	transport config.TransportConfig,
	meals mealAnalysis,
	visited map[int]bool,
	currentPos int,
	totalTravel, totalStay float64,
	restaurantInsertedForMeal bool,
) *int {
	for _, thresholdMultiplier := range b.cfg.LastPOIRadiusThresholds {
		threshold := thresholdMultiplier * maxRadius

		best := -1
		bestScore := -1.0

		for i, c := range candidates {
			if visited[i] {
				continue
			}

			if meals.shouldInsertRestaurantForMeal && c.Category == "Restaurant" {
				if restaurantInsertedForMeal {
					continue
				}
				if req.CurrentDatetime != nil {
					travel := travelTimeMinutes(matrix[currentPos][i+1], req.TransportationMode, transport)
					arrival := req.CurrentDatetime.Add(time.Duration((totalTravel + totalStay + travel) * float64(time.Minute)))
					if !inWindow(arrival, meals.lunchWindow) && !inWindow(arrival, meals.dinnerWindow) {
						continue
					}
				}
			}

			distToUser := matrix[i+1][0]
			if distToUser > threshold {
				continue
			}

			if req.CurrentDatetime != nil {
				travel := travelTimeMinutes(matrix[currentPos][i+1], req.TransportationMode, transport)
				arrival := req.CurrentDatetime.Add(time.Duration((totalTravel + totalStay + travel) * float64(time.Minute)))
				if !timeutil.HasEnoughTimeToStay(c.POI.OpenHours, arrival, c.POI.StayMinutes()) {
					continue
				}
			}

			tempTravel := totalTravel + travelTimeMinutes(matrix[currentPos][i+1], req.TransportationMode, transport)
			tempStay := totalStay + float64(stayTimeMinutes(c))
			returnTime := travelTimeMinutes(distToUser, req.TransportationMode, transport)
			if tempTravel+tempStay+returnTime > float64(req.MaxTimeMinutes) {
				continue
			}

			score := combinedScore(b.cfg, c, matrix[i+1][0], maxDist, false, true, nil)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}

		if best != -1 {
			return &best
		}
	}

	return nil
}

// formatRoute implements spec.md §4.7's "Post-formatting" step.
func (b *builder) formatRoute(
	req BuildRequest,
	candidates []Candidate,
	matrix [][]float64,
	transport config.TransportConfig,
	path []int,
	maxDist, totalTravel, totalStay, totalTime float64,
) *Route {
	places := make([]VisitedPOI, 0, len(path))
	prevPos := 0
	var rollingArrival *time.Time
	if req.CurrentDatetime != nil {
		t := *req.CurrentDatetime
		rollingArrival = &t
	}

	totalScore := 0.0

	for i, idx := range path {
		c := candidates[idx]
		travel := travelTimeMinutes(matrix[prevPos][idx+1], req.TransportationMode, transport)
		stay := c.POI.StayMinutes()

		isFirst := i == 0
		isLast := i == len(path)-1
		var distanceKM float64
		if isLast {
			distanceKM = matrix[idx+1][0]
		} else {
			distanceKM = matrix[prevPos][idx+1]
		}
		score := combinedScore(b.cfg, c, distanceKM, maxDist, isFirst, isLast, nil)

		visit := VisitedPOI{
			PlaceID:           c.POI.ID,
			PlaceName:         c.POI.Name,
			PoiType:           c.POI.PoiType,
			PoiTypeClean:      c.POI.PoiTypeClean,
			MainSubcategory:   c.POI.MainSubcategory,
			Specialization:    c.POI.Specialization,
			Category:          c.Category,
			Address:           c.POI.Address,
			Lat:               c.POI.Latitude,
			Lon:               c.POI.Longitude,
			Similarity:        c.Similarity,
			Rating:            c.POI.NormalizeStarsRating,
			CombinedScore:     score,
			TravelTimeMinutes: travel,
			StayTimeMinutes:   stay,
			OpenHours:         c.POI.OpenHours,
		}

		if rollingArrival != nil {
			arrival := rollingArrival.Add(time.Duration(travel * float64(time.Minute)))
			visit.ArrivalTime = &arrival
			next := arrival.Add(time.Duration(stay) * time.Minute)
			rollingArrival = &next
		}

		places = append(places, visit)
		totalScore += c.Similarity
		prevPos = idx + 1
	}

	avgScore := 0.0
	efficiency := 0.0
	if len(path) > 0 {
		avgScore = totalScore / float64(len(path))
	}
	if totalTime > 0 {
		efficiency = totalScore / totalTime * 100
	}

	return &Route{
		PlaceIndices:      path,
		TotalTimeMinutes:  totalTime,
		TravelTimeMinutes: totalTravel,
		StayTimeMinutes:   totalStay,
		TotalScore:        totalScore,
		AvgScore:          avgScore,
		Efficiency:        efficiency,
		Places:            places,
	}
}
