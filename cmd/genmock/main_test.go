package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/restroom-finder/internal/adapter/overpass"
	"github.com/couchcryptid/restroom-finder/internal/domain"
)

func TestGenerate_WithinRadius(t *testing.T) {
	origin := domain.Coordinates{Lat: 30.2672, Lon: -97.7431}
	resp := generate(origin, 12)

	require.Len(t, resp.Elements, 12)
	for _, el := range resp.Elements {
		d := origin.DistanceTo(domain.Coordinates{Lat: el.Lat, Lon: el.Lon})
		assert.Less(t, d, float64(overpass.RadiusMeters), "node %d", el.ID)
		assert.Equal(t, "toilets", el.Tags["amenity"])
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	origin := domain.Coordinates{Lat: 52.52, Lon: 13.405}
	assert.Equal(t, generate(origin, 5), generate(origin, 5))
}

func TestGenerate_DecodesWithOverpassParser(t *testing.T) {
	resp := generate(domain.Coordinates{Lat: 12.34, Lon: 56.78}, 4)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	decoded, err := overpass.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, decoded.POIs, 4)
	assert.Equal(t, int64(baseNodeID), decoded.POIs[0].ID)
	assert.Equal(t, "node", decoded.POIs[0].Type)
	assert.Equal(t, "restroom-finder genmock", decoded.Attribution.Generator)
}

func TestGenerate_Empty(t *testing.T) {
	resp := generate(domain.Coordinates{}, 0)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"elements":[]`)
}
