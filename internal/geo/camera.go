package geo

const (
	DefaultZoom = 11
	FocusZoom   = 16
)

// CameraTarget tells the map view where to look. The map reacts to the
// value; nothing else (such as a language switch) moves the camera.
type CameraTarget struct {
	Center Point `json:"center"`
	Zoom   int   `json:"zoom"`
}

// DefaultCamera frames the whole territory
var DefaultCamera = CameraTarget{
	Center: Point{Lat: 22.35, Lng: 114.14},
	Zoom:   DefaultZoom,
}

// CameraFor focuses on a venue location, or falls back to the default view
// when the venue cannot be located
func CameraFor(p Point, ok bool) CameraTarget {
	if !ok || !p.Valid() {
		return DefaultCamera
	}
	return CameraTarget{Center: p, Zoom: FocusZoom}
}
