package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-guide/internal/geo"
	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
	"venue-guide/internal/session"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleCatalog() []models.Venue {
	return []models.Venue{
		{
			ID: "v2", Name: "Tai Po Civic Centre", NameChinese: "大埔文娛中心",
			Latitude: models.NewCoordinate(22.4510), Longitude: models.NewCoordinate(114.1680),
			District: "Tai Po", Area: "New Territories",
			Events: []models.Event{
				{ID: "e2", Title: "Puppet Show", Date: "Dec 5 7:30pm"},
				{ID: "e1", Title: "Choir", Date: "Dec 6 3pm", Presenter: "LCSD"},
			},
		},
		{
			ID: "v1", Name: "Lost Hall",
			District: "Sha Tin",
		},
	}
}

func TestReplaceAndListCatalog(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	require.NoError(t, database.ReplaceCatalog(ctx, sampleCatalog()))

	venues, err := database.ListVenues(ctx)
	require.NoError(t, err)
	require.Len(t, venues, 2)

	// Backend order is kept, not id order
	assert.Equal(t, "v2", venues[0].ID)
	assert.Equal(t, "v1", venues[1].ID)

	assert.Equal(t, "大埔文娛中心", venues[0].NameChinese)
	p, ok := venues[0].Location()
	require.True(t, ok)
	assert.InDelta(t, 22.4510, p.Lat, 1e-9)

	require.Len(t, venues[0].Events, 2)
	assert.Equal(t, "e2", venues[0].Events[0].ID)
	assert.Equal(t, "e1", venues[0].Events[1].ID)
	assert.Equal(t, "v2", venues[0].Events[1].Venue.ID)
	assert.Equal(t, "LCSD", venues[0].Events[1].Presenter)

	_, ok = venues[1].Location()
	assert.False(t, ok)
	assert.NotNil(t, venues[1].Events)
	assert.Empty(t, venues[1].Events)

	// A second sync replaces everything
	require.NoError(t, database.ReplaceCatalog(ctx, sampleCatalog()[1:]))
	count, err := database.GetVenueCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetVenue(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	require.NoError(t, database.ReplaceCatalog(ctx, sampleCatalog()))

	v, err := database.GetVenue(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, "Tai Po Civic Centre", v.Name)
	assert.Len(t, v.Events, 2)

	_, err = database.GetVenue(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, database.SetVenueAddress(ctx, "v2", "12 On Pong Road"))
	v, err = database.GetVenue(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, "12 On Pong Road", v.Address)
}

func TestListDistricts(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	districts, err := database.ListDistricts(ctx)
	require.NoError(t, err)
	assert.Empty(t, districts)

	require.NoError(t, database.ReplaceCatalog(ctx, sampleCatalog()))
	districts, err = database.ListDistricts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sha Tin", "Tai Po"}, districts)
}

func TestAddressCache(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	p := geo.Point{Lat: 22.293712, Lng: 114.170234}

	_, err := database.GetAddress(ctx, p, "en")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, database.SaveAddress(ctx, p, "en", "10 Salisbury Road"))
	require.NoError(t, database.SaveAddress(ctx, p, "en", "10 Salisbury Road, TST"))

	// Nearby points share the entry
	addr, err := database.GetAddress(ctx, geo.Point{Lat: 22.29372, Lng: 114.17021}, "en")
	require.NoError(t, err)
	assert.Equal(t, "10 Salisbury Road, TST", addr)

	_, err = database.GetAddress(ctx, p, "zh")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	s, err := database.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Session{}, s)

	want := session.Session{Token: "tok", Role: "admin", Username: "amy", Locale: i18n.Chinese}
	require.NoError(t, database.SaveSession(ctx, want))

	s, err = database.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, s)

	require.NoError(t, database.ClearSession(ctx))
	s, err = database.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Session{Locale: i18n.Chinese}, s)
}

func TestSyncRuns(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	_, err := database.LastSync(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	start := time.Now().Add(-time.Minute)
	require.NoError(t, database.RecordSync(ctx, SyncRun{StartedAt: start, FinishedAt: start.Add(time.Second), Venues: 3, Events: 7}))
	require.NoError(t, database.RecordSync(ctx, SyncRun{StartedAt: start, FinishedAt: start.Add(2 * time.Second), Venues: 4, Events: 9, Error: "geocode: boom"}))

	run, err := database.LastSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, run.Venues)
	assert.Equal(t, 9, run.Events)
	assert.Equal(t, "geocode: boom", run.Error)
	assert.WithinDuration(t, start.Add(2*time.Second), run.FinishedAt, time.Second)
}
