package geo

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("q") == "nowhere" {
				w.Write([]byte(`[]`))
				return
			}
			assert.Equal(t, "hk", r.URL.Query().Get("countrycodes"))
			w.Write([]byte(`[{"lat":"22.2937","lon":"114.1702","display_name":"Hong Kong Cultural Centre"}]`))
		case "/reverse":
			assert.Equal(t, "22.293700", r.URL.Query().Get("lat"))
			w.Write([]byte(`{"lat":"22.2937","lon":"114.1702","display_name":"10 Salisbury Road, Tsim Sha Tsui"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGeocoder(srv.URL, "hk")
	ctx := context.Background()

	t.Run("Geocode", func(t *testing.T) {
		p, err := g.Geocode(ctx, "Hong Kong Cultural Centre")
		require.NoError(t, err)
		assert.InDelta(t, 22.2937, p.Lat, 1e-9)
		assert.InDelta(t, 114.1702, p.Lng, 1e-9)
	})

	t.Run("NoResults", func(t *testing.T) {
		_, err := g.Geocode(ctx, "nowhere")
		assert.Error(t, err)
	})

	t.Run("Reverse", func(t *testing.T) {
		addr, err := g.ReverseGeocode(ctx, Point{Lat: 22.2937, Lng: 114.1702})
		require.NoError(t, err)
		assert.Equal(t, "10 Salisbury Road, Tsim Sha Tsui", addr)
	})
}

func TestRouterGetRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("json"), `"costing":"auto"`)
		w.Write([]byte(`{"trip":{"summary":{"time":1200,"length":14.2}}}`))
	}))
	defer srv.Close()

	r := NewRouter(srv.URL, "")
	res, err := r.GetRoute(context.Background(), Observer, Point{Lat: 22.2937, Lng: 114.1702})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, res.DurationMins, 1e-9)
	assert.InDelta(t, 14.2, res.DistanceKm, 1e-9)

	assert.Equal(t, "auto", res.Mode)

	_, err = r.GetRoute(context.Background(), Observer, Point{Lat: 1, Lng: math.Inf(1)})
	assert.Error(t, err)
}

func TestRouterTravelTime(t *testing.T) {
	var sent valhallaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("json")), &sent))
		w.Write([]byte(`{"trip":{"summary":{"time":900,"length":5.5}}}`))
	}))
	defer srv.Close()

	venue := Point{Lat: 22.2816, Lng: 114.1617}
	home := Point{Lat: 22.3, Lng: 114.2}

	res, err := NewRouter(srv.URL, "pedestrian").WithOrigin(home).TravelTime(context.Background(), venue)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, res.DurationMins, 1e-9)
	assert.Equal(t, "pedestrian", res.Mode)
	assert.Equal(t, valhallaRequest{
		Locations: []valhallaLocation{{Lat: 22.3, Lon: 114.2}, {Lat: 22.2816, Lon: 114.1617}},
		Costing:   "pedestrian",
		Units:     "kilometers",
	}, sent)

	_, err = NewRouter(srv.URL, "").TravelTime(context.Background(), venue)
	require.NoError(t, err)
	assert.Equal(t, valhallaLocation{Lat: Observer.Lat, Lon: Observer.Lng}, sent.Locations[0])
}
