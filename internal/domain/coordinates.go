package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinates is a WGS-84 latitude/longitude pair reported by a device.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the pair is a usable position.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("coordinates: NaN component")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinates: latitude %v out of range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("coordinates: longitude %v out of range", c.Lon)
	}
	return nil
}

// Point converts to an orb point (lon, lat order).
func (c Coordinates) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// DistanceTo returns the great-circle distance in meters.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	return geo.Distance(c.Point(), other.Point())
}

// String formats as "lat,lon" using the shortest round-tripping decimals.
func (c Coordinates) String() string {
	return FormatDegrees(c.Lat) + "," + FormatDegrees(c.Lon)
}

// FormatDegrees writes a coordinate component without exponent or padding.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
