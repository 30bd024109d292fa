package domain

import "fmt"

const (
	osmNodeURL    = "https://www.openstreetmap.org/node/%d"
	directionsURL = "https://www.google.com/maps/dir/?api=1&destination=%s,%s"
)

// PointOfInterest is one Overpass element. Values are immutable once parsed.
type PointOfInterest struct {
	ID   int64             `json:"id"`
	Type string            `json:"type,omitempty"` // "node" for the fixed query
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Coordinates returns the element's position.
func (p PointOfInterest) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lon: p.Lon}
}

// Tag returns the tag value or "".
func (p PointOfInterest) Tag(key string) string {
	return p.Tags[key]
}

// OSMURL links to the element on openstreetmap.org.
func (p PointOfInterest) OSMURL() string {
	return fmt.Sprintf(osmNodeURL, p.ID)
}

// DirectionsURL links to turn-by-turn directions ending at the element.
func (p PointOfInterest) DirectionsURL() string {
	return fmt.Sprintf(directionsURL, FormatDegrees(p.Lat), FormatDegrees(p.Lon))
}
