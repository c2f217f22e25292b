package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-guide/internal/geo"
	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

func dist(d float64) *float64 { return &d }

func names(venues []models.Venue) []string {
	out := make([]string, len(venues))
	for i, v := range venues {
		out[i] = v.Name
	}
	return out
}

func TestSortVenues(t *testing.T) {
	venues := []models.Venue{
		{Name: "B", Distance: dist(5)},
		{Name: "A", Distance: dist(2)},
		{Name: "C", Distance: dist(5)},
	}

	t.Run("NoneKeepsOrder", func(t *testing.T) {
		got := SortVenues(venues, Unsorted, i18n.English)
		assert.Equal(t, []string{"B", "A", "C"}, names(got))
	})

	t.Run("DistanceAscendingIsStable", func(t *testing.T) {
		got := SortVenues(venues, SortState{Key: SortDistance, Direction: DirAsc}, i18n.English)
		assert.Equal(t, []string{"A", "B", "C"}, names(got))
	})

	t.Run("DistanceDescendingIsStable", func(t *testing.T) {
		got := SortVenues(venues, SortState{Key: SortDistance, Direction: DirDesc}, i18n.English)
		assert.Equal(t, []string{"B", "C", "A"}, names(got))
	})

	t.Run("InputUntouched", func(t *testing.T) {
		SortVenues(venues, SortState{Key: SortName, Direction: DirAsc}, i18n.English)
		assert.Equal(t, []string{"B", "A", "C"}, names(venues))
	})
}

func TestSortByName(t *testing.T) {
	venues := []models.Venue{
		{Name: "sha Tin Town Hall", NameChinese: "沙田大會堂"},
		{Name: "Academy for Performing Arts", NameChinese: "演藝學院"},
		{Name: "Kwai Tsing Theatre"},
	}

	got := SortVenues(venues, SortState{Key: SortName, Direction: DirAsc}, i18n.English)
	assert.Equal(t, []string{"Academy for Performing Arts", "Kwai Tsing Theatre", "sha Tin Town Hall"}, names(got))

	got = SortVenues(venues, SortState{Key: SortName, Direction: DirDesc}, i18n.English)
	assert.Equal(t, []string{"sha Tin Town Hall", "Kwai Tsing Theatre", "Academy for Performing Arts"}, names(got))
}

func TestSortByEventCount(t *testing.T) {
	venues := []models.Venue{
		{Name: "Two", Events: make([]models.Event, 2)},
		{Name: "Zero"},
		{Name: "One", Events: make([]models.Event, 1)},
		{Name: "AlsoZero", Events: []models.Event{}},
	}

	got := SortVenues(venues, SortState{Key: SortEventCount, Direction: DirAsc}, i18n.English)
	assert.Equal(t, []string{"Zero", "AlsoZero", "One", "Two"}, names(got))

	got = SortVenues(venues, SortState{Key: SortEventCount, Direction: DirDesc}, i18n.English)
	assert.Equal(t, []string{"Two", "One", "Zero", "AlsoZero"}, names(got))
}

func TestToggle(t *testing.T) {
	s := Unsorted

	s = s.Toggle(SortName)
	assert.Equal(t, SortState{Key: SortName, Direction: DirAsc}, s)

	s = s.Toggle(SortName)
	assert.Equal(t, SortState{Key: SortName, Direction: DirDesc}, s)

	s = s.Toggle(SortName)
	assert.Equal(t, Unsorted, s)

	s = s.Toggle(SortName)
	assert.Equal(t, SortState{Key: SortName, Direction: DirAsc}, s)

	// Switching column always restarts at ascending
	s = s.Toggle(SortName).Toggle(SortDistance)
	assert.Equal(t, SortState{Key: SortDistance, Direction: DirAsc}, s)

	assert.Equal(t, Unsorted, s.Toggle(SortKey("bogus")))
}

func TestParseSortState(t *testing.T) {
	assert.Equal(t, Unsorted, ParseSortState("", "asc"))
	assert.Equal(t, Unsorted, ParseSortState("price", "asc"))
	assert.Equal(t, Unsorted, ParseSortState("name", "sideways"))
	assert.Equal(t, SortState{Key: SortName, Direction: DirAsc}, ParseSortState("name", ""))
	assert.Equal(t, SortState{Key: SortEventCount, Direction: DirDesc}, ParseSortState("eventCount", "desc"))
}

func TestFilterVenues(t *testing.T) {
	venues := []models.Venue{
		{Name: "Sha Tin Town Hall", NameChinese: "沙田大會堂", District: "Sha Tin", Distance: dist(4.1)},
		{Name: "Tai Po Civic Centre", NameChinese: "大埔文娛中心", District: "Tai Po", Distance: dist(2.0)},
		{Name: "City Hall", NameChinese: "大會堂", District: "Central", Distance: dist(18.5)},
	}

	t.Run("NoFilters", func(t *testing.T) {
		assert.Len(t, FilterVenues(venues, Filters{}), 3)
	})

	t.Run("SearchPrimaryName", func(t *testing.T) {
		got := FilterVenues(venues, Filters{Search: "  TOWN hall "})
		assert.Equal(t, []string{"Sha Tin Town Hall"}, names(got))
	})

	t.Run("SearchSecondaryName", func(t *testing.T) {
		got := FilterVenues(venues, Filters{Search: "大會堂"})
		assert.Equal(t, []string{"Sha Tin Town Hall", "City Hall"}, names(got))
	})

	t.Run("District", func(t *testing.T) {
		got := FilterVenues(venues, Filters{District: "Tai Po"})
		assert.Equal(t, []string{"Tai Po Civic Centre"}, names(got))
	})

	t.Run("MaxDistanceInclusive", func(t *testing.T) {
		got := FilterVenues(venues, Filters{MaxDistance: "4.1"})
		assert.Equal(t, []string{"Sha Tin Town Hall", "Tai Po Civic Centre"}, names(got))
	})

	t.Run("MaxDistanceNonNumeric", func(t *testing.T) {
		got := FilterVenues(venues, Filters{MaxDistance: "abc", Search: "hall"})
		assert.Equal(t, []string{"Sha Tin Town Hall", "City Hall"}, names(got))
	})

	t.Run("MaxDistanceNegative", func(t *testing.T) {
		assert.Len(t, FilterVenues(venues, Filters{MaxDistance: "-1"}), 3)
	})

	t.Run("Combined", func(t *testing.T) {
		got := FilterVenues(venues, Filters{Search: "hall", District: "Central", MaxDistance: "20"})
		assert.Equal(t, []string{"City Hall"}, names(got))

		got = FilterVenues(venues, Filters{Search: "hall", District: "Central", MaxDistance: "10"})
		assert.Empty(t, got)
	})
}

func TestRank(t *testing.T) {
	venues := []models.Venue{
		{ID: "far", Name: "Far", Latitude: models.NewCoordinate(22.2819), Longitude: models.NewCoordinate(114.1589)},
		{ID: "lost", Name: "Lost", Latitude: models.NewCoordinate(22.3)},
		{ID: "near", Name: "Near", Latitude: models.NewCoordinate(22.35), Longitude: models.NewCoordinate(114.14)},
	}

	got := Rank(venues, geo.Observer, Filters{}, SortState{Key: SortDistance, Direction: DirAsc}, i18n.English)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Near", "Far"}, names(got))
	require.NotNil(t, got[0].Distance)
	assert.InDelta(t, 10.34, *got[0].Distance, 0.05)

	// Distances are not written back to the caller's slice
	assert.Nil(t, venues[2].Distance)

	got = Rank(venues, geo.Observer, Filters{MaxDistance: "12"}, Unsorted, i18n.English)
	assert.Equal(t, []string{"Near"}, names(got))
}
