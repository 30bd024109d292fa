package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

const validDoc = `{
  "version": 0.6,
  "generator": "Overpass API",
  "osm3s": {"timestamp_osm_base": "2024-04-27T06:00:00Z", "copyright": "ODbL"},
  "elements": [
    {"type": "node", "id": 1, "lat": 12.341, "lon": 56.781, "tags": {"amenity": "toilets"}},
    {"type": "node", "id": 2, "lat": 12.339, "lon": 56.779, "tags": {"amenity": "toilets", "fee": "no"}}
  ]
}`

func TestRun_Valid(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader(validDoc), nil, &out)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Nodes: 2")
	assert.Contains(t, out.String(), "https://www.openstreetmap.org/node/2")
	assert.Contains(t, out.String(), "All validations passed.")
	assert.NotContains(t, out.String(), "Phase 3")
}

func TestRun_SchemaFailure(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader(`{"elements": [{"id": 1, "lat": 1}]}`), nil, &out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "missing lon")
	assert.NotContains(t, out.String(), "Phase 2")
}

func TestRun_NodeChecks(t *testing.T) {
	doc := `{"elements": [
	  {"type": "way", "id": 5, "lat": 1, "lon": 1, "tags": {"amenity": "toilets"}},
	  {"type": "node", "id": 5, "lat": 95, "lon": 1, "tags": {"amenity": "bench"}}
	]}`
	var out bytes.Buffer
	code := run(strings.NewReader(doc), nil, &out)

	assert.Equal(t, 1, code)
	s := out.String()
	assert.Contains(t, s, `type "way"`)
	assert.Contains(t, s, "duplicate id 5")
	assert.Contains(t, s, `amenity="bench"`)
	assert.Contains(t, s, "Validation FAILED.")
}

func TestRun_RadiusCheck(t *testing.T) {
	origin := &domain.Coordinates{Lat: 12.34, Lon: 56.78}

	var ok bytes.Buffer
	assert.Equal(t, 0, run(strings.NewReader(validDoc), origin, &ok))
	assert.Contains(t, ok.String(), "Phase 3")

	far := `{"elements": [{"type": "node", "id": 9, "lat": 12.5, "lon": 56.78, "tags": {"amenity": "toilets"}}]}`
	var bad bytes.Buffer
	assert.Equal(t, 1, run(strings.NewReader(far), origin, &bad))
	assert.Contains(t, bad.String(), "beyond 2000 m")
}
