package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Router asks a Valhalla server how long the trip to a venue takes
type Router struct {
	client  *http.Client
	baseURL string
	costing string
	origin  Point
}

// RouteResult is the travel summary shown on a venue's detail panel
type RouteResult struct {
	DurationMins float64 `json:"duration_mins"`
	DistanceKm   float64 `json:"distance_km"`
	Mode         string  `json:"mode"`
}

// NewRouter creates a router starting at the default Observer. An empty
// baseURL uses the public Valhalla server; costing is a Valhalla costing
// model such as "auto", "bicycle" or "pedestrian".
func NewRouter(baseURL, costing string) *Router {
	if baseURL == "" {
		baseURL = "https://valhalla1.openstreetmap.de"
	}
	if costing == "" {
		costing = "auto"
	}
	return &Router{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		costing: costing,
		origin:  Observer,
	}
}

// WithOrigin returns a copy of the router whose trips start at p
func (r *Router) WithOrigin(p Point) *Router {
	c := *r
	c.origin = p
	return &c
}

// TravelTime routes from the router's origin to a venue
func (r *Router) TravelTime(ctx context.Context, venue Point) (*RouteResult, error) {
	return r.GetRoute(ctx, r.origin, venue)
}

type valhallaLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type valhallaRequest struct {
	Locations []valhallaLocation `json:"locations"`
	Costing   string             `json:"costing"`
	Units     string             `json:"units"`
}

type valhallaResponse struct {
	Trip struct {
		Summary struct {
			Time   float64 `json:"time"`   // seconds
			Length float64 `json:"length"` // kilometers
		} `json:"summary"`
	} `json:"trip"`
}

// GetRoute calculates the trip between two points
func (r *Router) GetRoute(ctx context.Context, from, to Point) (*RouteResult, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("route endpoints must be finite coordinates")
	}

	body, err := json.Marshal(valhallaRequest{
		Locations: []valhallaLocation{{Lat: from.Lat, Lon: from.Lng}, {Lat: to.Lat, Lon: to.Lng}},
		Costing:   r.costing,
		Units:     "kilometers",
	})
	if err != nil {
		return nil, err
	}

	reqURL := r.baseURL + "/route?json=" + url.QueryEscape(string(body))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "VenueGuide/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("route API error %d: %s", resp.StatusCode, msg)
	}

	var result valhallaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse route response: %w", err)
	}

	return &RouteResult{
		DurationMins: result.Trip.Summary.Time / 60,
		DistanceKm:   result.Trip.Summary.Length,
		Mode:         r.costing,
	}, nil
}
