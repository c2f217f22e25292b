package geo

import (
	"math"
)

const (
	// Earth radius in kilometers
	EarthRadiusKm = 6371.0
)

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether both coordinates are finite numbers
func (p Point) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Observer is the fixed reference point distances are measured from
var Observer = Point{Lat: 22.41975, Lng: 114.20644}

// Haversine calculates the great-circle distance between two points
// Returns distance in kilometers
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	// Haversine formula
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceKm returns the distance from observer to point in kilometers
func DistanceKm(observer, point Point) float64 {
	return Haversine(observer.Lat, observer.Lng, point.Lat, point.Lng)
}
