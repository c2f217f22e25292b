package ranker

import (
	"venue-guide/internal/geo"
	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

// WithDistances returns copies of the locatable venues with Distance set
// relative to observer. Venues missing a usable coordinate are left out.
func WithDistances(venues []models.Venue, observer geo.Point) []models.Venue {
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		p, ok := v.Location()
		if !ok {
			continue
		}
		d := geo.DistanceKm(observer, p)
		v.Distance = &d
		out = append(out, v)
	}
	return out
}

// Rank computes each venue's distance once, then filters, then sorts.
// The input slice is not modified.
func Rank(venues []models.Venue, observer geo.Point, f Filters, s SortState, l i18n.Locale) []models.Venue {
	located := WithDistances(venues, observer)
	return SortVenues(FilterVenues(located, f), s, l)
}
