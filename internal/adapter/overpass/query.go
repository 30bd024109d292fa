package overpass

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

const (
	// RadiusMeters bounds the search around the resolved position.
	RadiusMeters = 2000
	// FilterKey and FilterValue select the node tag to match.
	FilterKey   = "amenity"
	FilterValue = "toilets"
)

// BuildQuery renders the Overpass QL statement for a position.
func BuildQuery(at domain.Coordinates) string {
	return fmt.Sprintf(`[out:json];node[%s=%s](around:%d,%s,%s);out;`,
		strconv.Quote(FilterKey), strconv.Quote(FilterValue),
		RadiusMeters, domain.FormatDegrees(at.Lat), domain.FormatDegrees(at.Lon))
}
