package ranker

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"

	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

// SortKey selects the column venues are ordered by
type SortKey string

const (
	SortNone       SortKey = "none"
	SortName       SortKey = "name"
	SortEventCount SortKey = "eventCount"
	SortDistance   SortKey = "distance"
)

// Direction is the sort direction
type Direction string

const (
	DirNone Direction = "none"
	DirAsc  Direction = "asc"
	DirDesc Direction = "desc"
)

// SortState is the current table ordering. Direction is DirNone exactly
// when Key is SortNone.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Unsorted keeps the backend order
var Unsorted = SortState{Key: SortNone, Direction: DirNone}

// Toggle returns the state after the user clicks the given column:
// ascending, then descending, then unsorted. Clicking another column
// starts over at ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if !validKey(key) || key == SortNone {
		return Unsorted
	}
	if s.Key != key {
		return SortState{Key: key, Direction: DirAsc}
	}
	switch s.Direction {
	case DirAsc:
		return SortState{Key: key, Direction: DirDesc}
	case DirDesc:
		return Unsorted
	default:
		return SortState{Key: key, Direction: DirAsc}
	}
}

// ParseSortState builds a state from query values. A missing direction
// means ascending; anything invalid means unsorted.
func ParseSortState(key, dir string) SortState {
	k := SortKey(key)
	if k == "" || k == SortNone || !validKey(k) {
		return Unsorted
	}
	switch Direction(dir) {
	case "", DirAsc:
		return SortState{Key: k, Direction: DirAsc}
	case DirDesc:
		return SortState{Key: k, Direction: DirDesc}
	}
	return Unsorted
}

func validKey(k SortKey) bool {
	switch k {
	case SortNone, SortName, SortEventCount, SortDistance:
		return true
	}
	return false
}

// SortVenues returns a stably sorted copy of venues. Ties keep their
// original relative order.
func SortVenues(venues []models.Venue, state SortState, l i18n.Locale) []models.Venue {
	out := slices.Clone(venues)
	if state.Key == SortNone || state.Direction == DirNone {
		return out
	}

	compare := comparator(state.Key, l)
	if compare == nil {
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Venue) int {
		c := compare(a, b)
		if state.Direction == DirDesc {
			return -c
		}
		return c
	})

	return out
}

func comparator(key SortKey, l i18n.Locale) func(a, b models.Venue) int {
	switch key {
	case SortName:
		col := collate.New(l.Tag(), collate.IgnoreCase)
		return func(a, b models.Venue) int {
			return col.CompareString(
				i18n.ResolveLocalizedField(a, "name", l),
				i18n.ResolveLocalizedField(b, "name", l),
			)
		}
	case SortEventCount:
		return func(a, b models.Venue) int {
			return cmp.Compare(len(a.Events), len(b.Events))
		}
	case SortDistance:
		return func(a, b models.Venue) int {
			return cmp.Compare(distanceOf(a), distanceOf(b))
		}
	}
	return nil
}

// Venues without a computed distance sort as if infinitely far away
func distanceOf(v models.Venue) float64 {
	if v.Distance == nil {
		return maxDistance
	}
	return *v.Distance
}
