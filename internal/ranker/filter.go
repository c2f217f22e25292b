// Package ranker produces the filtered, ordered venue list shown next to
// the map, with distances measured from a fixed observer.
package ranker

import (
	"math"
	"strconv"
	"strings"

	"venue-guide/internal/models"
)

const maxDistance = math.MaxFloat64

// Filters is the venue list filter bar. All set filters must match.
type Filters struct {
	Search      string `json:"search,omitempty"`       // Substring of either name, case-insensitive
	MaxDistance string `json:"max_distance,omitempty"` // Raw input; ignored unless a non-negative number
	District    string `json:"district,omitempty"`     // Exact match; empty means any
}

// DistanceBound returns the parsed distance limit and whether it applies
func (f Filters) DistanceBound() (float64, bool) {
	s := strings.TrimSpace(f.MaxDistance)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// FilterVenues returns the venues passing every filter, in input order.
// Venues are expected to carry a distance when a distance bound is set;
// those without one are dropped by that filter.
func FilterVenues(venues []models.Venue, f Filters) []models.Venue {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	bound, useBound := f.DistanceBound()

	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if term != "" && !matchesName(v, term) {
			continue
		}
		if f.District != "" && v.District != f.District {
			continue
		}
		if useBound && (v.Distance == nil || *v.Distance > bound) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesName(v models.Venue, term string) bool {
	return strings.Contains(strings.ToLower(v.Name), term) ||
		strings.Contains(strings.ToLower(v.NameChinese), term)
}
