// Package timeutil implements opening-hours parsing and meal-window
// overlap checks shared by the route builder and the POI info store.
//
// Grounded on original_source/utils/time_utils.py.
package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// TimeRange is a single open interval within one day, in "HH:MM" form.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayHours is the opening hours for one English weekday name. Per
// SPEC_FULL.md §10, the day key stays an English literal even though
// weekday computation below is locale-independent.
type DayHours struct {
	Day    string      `json:"day"`
	Ranges []TimeRange `json:"hours"`
}

// LunchWindow and DinnerWindow are the two fixed meal windows, in
// minutes since midnight.
var (
	LunchWindow  = [2]int{11 * 60, 14 * 60}
	DinnerWindow = [2]int{17 * 60, 20 * 60}
)

// ParseTime parses "HH:MM" into minutes since midnight. Malformed
// input is treated as 00:00, per spec.md §4.2's failure mode.
func ParseTime(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}

// MinutesToTime renders minutes since midnight back to "HH:MM".
func MinutesToTime(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return strconv.Itoa(minutes/60) + ":" + pad2(minutes%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func rangesForWeekday(hours []DayHours, weekday string) ([]TimeRange, bool) {
	for _, d := range hours {
		if d.Day == weekday {
			return d.Ranges, true
		}
	}
	return nil, false
}

// IsOpenAt reports whether a POI with the given opening hours is open
// at t. If hours is empty, the POI is treated as always open (spec.md
// §4.2). If hours is non-empty but the weekday has no entry at all,
// the day is treated as closed.
func IsOpenAt(hours []DayHours, t time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	weekday := t.Weekday().String()
	ranges, ok := rangesForWeekday(hours, weekday)
	if !ok {
		return false
	}

	minute := minuteOfDay(t)
	for _, r := range ranges {
		if ParseTime(r.Start) <= minute && minute <= ParseTime(r.End) {
			return true
		}
	}
	return false
}

// HasEnoughTimeToStay reports whether the opening range containing t
// closes at least stayMinutes after t. A POI open but closing in 10
// minutes is rejected even if IsOpenAt is true.
func HasEnoughTimeToStay(hours []DayHours, t time.Time, stayMinutes int) bool {
	if len(hours) == 0 {
		return true
	}

	weekday := t.Weekday().String()
	ranges, ok := rangesForWeekday(hours, weekday)
	if !ok {
		return false
	}

	minute := minuteOfDay(t)
	for _, r := range ranges {
		start, end := ParseTime(r.Start), ParseTime(r.End)
		if start <= minute && minute <= end {
			return end-minute >= stayMinutes
		}
	}
	return false
}

// OverlapsWindow reports whether any opening range on any day between
// t1 and t2 (inclusive, by calendar date) intersects the clock window
// [t1, t2] in minutes-of-day terms.
func OverlapsWindow(hours []DayHours, t1, t2 time.Time) bool {
	if len(hours) == 0 {
		return true
	}

	y, m, day := t1.Date()
	for d := time.Date(y, m, day, 0, 0, 0, 0, t1.Location()); !d.After(t2); d = d.AddDate(0, 0, 1) {
		ranges, ok := rangesForWeekday(hours, d.Weekday().String())
		if !ok {
			continue
		}
		for _, r := range ranges {
			rs, re := ParseTime(r.Start), ParseTime(r.End)
			winStart, winEnd := windowMinutesFor(d, t1, t2)
			if rs <= winEnd && winStart <= re {
				return true
			}
		}
	}
	return false
}

// windowMinutesFor clamps [t1,t2] to the single calendar day d and
// returns its start/end minute-of-day bounds.
func windowMinutesFor(d, t1, t2 time.Time) (int, int) {
	start := 0
	end := 1440
	if sameDate(d, t1) {
		start = minuteOfDay(t1)
	}
	if sameDate(d, t2) {
		end = minuteOfDay(t2)
	}
	return start, end
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MealOverlapMinutes returns the number of minutes the window
// [start, start+budgetMinutes] overlaps the lunch and dinner windows.
func MealOverlapMinutes(start time.Time, budgetMinutes int) (lunch, dinner int) {
	startMin := minuteOfDay(start)
	endMin := startMin + budgetMinutes

	lunch = overlapMinutes(startMin, endMin, LunchWindow[0], LunchWindow[1])
	dinner = overlapMinutes(startMin, endMin, DinnerWindow[0], DinnerWindow[1])
	return lunch, dinner
}

func overlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	lo := maxInt(aStart, bStart)
	hi := minInt(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NeedsMealRestaurant reports whether the window starting at `start`
// for budgetMinutes overlaps either meal window by at least 60
// minutes (spec.md §4.2 / §4.7 meal analysis).
func NeedsMealRestaurant(start time.Time, budgetMinutes int) (needsLunch, needsDinner bool) {
	lunch, dinner := MealOverlapMinutes(start, budgetMinutes)
	return lunch >= 60, dinner >= 60
}

// InActiveMealWindow reports whether t itself falls inside a meal
// window, both boundary minutes included.
func InActiveMealWindow(t time.Time) bool {
	minute := minuteOfDay(t)
	return (minute >= LunchWindow[0] && minute <= LunchWindow[1]) ||
		(minute >= DinnerWindow[0] && minute <= DinnerWindow[1])
}

// FilterOpenAtArrival returns the indices of items (by caller-supplied
// opening hours) that are open somewhere within [t1, t2].
func FilterOpenAtArrival(allHours [][]DayHours, t1, t2 time.Time) []int {
	kept := make([]int, 0, len(allHours))
	for i, h := range allHours {
		if OverlapsWindow(h, t1, t2) {
			kept = append(kept, i)
		}
	}
	return kept
}
