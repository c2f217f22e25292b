package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Geocoder handles address lookups using Nominatim
type Geocoder struct {
	client       *http.Client
	userAgent    string
	baseURL      string
	countryCodes string
	language     string
}

// NominatimResult represents a geocoding result from Nominatim
type NominatimResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// NewGeocoder creates a new Nominatim geocoder
func NewGeocoder(baseURL, countryCodes string) *Geocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Geocoder{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent:    "VenueGuide/1.0 (cultural venue directory)",
		baseURL:      baseURL,
		countryCodes: countryCodes,
		language:     "en",
	}
}

// WithLanguage returns a copy of the geocoder asking for results in lang
func (g *Geocoder) WithLanguage(lang string) *Geocoder {
	c := *g
	c.language = lang
	return &c
}

// Geocode converts an address to a point
func (g *Geocoder) Geocode(ctx context.Context, address string) (Point, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.countryCodes != "" {
		params.Set("countrycodes", g.countryCodes)
	}

	var results []NominatimResult
	if err := g.get(ctx, "/search", params, &results); err != nil {
		return Point{}, err
	}

	if len(results) == 0 {
		return Point{}, fmt.Errorf("no results found for address: %s", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse longitude: %w", err)
	}

	return Point{Lat: lat, Lng: lng}, nil
}

// ReverseGeocode converts a point to a display address
func (g *Geocoder) ReverseGeocode(ctx context.Context, p Point) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(p.Lng, 'f', 6, 64))
	params.Set("format", "json")

	var result NominatimResult
	if err := g.get(ctx, "/reverse", params, &result); err != nil {
		return "", err
	}

	return result.DisplayName, nil
}

func (g *Geocoder) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Nominatim requires a valid User-Agent
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")
	if g.language != "" {
		req.Header.Set("Accept-Language", g.language)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
