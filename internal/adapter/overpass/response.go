package overpass

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// ErrSchema marks a response that decoded as JSON but lacks required fields.
var ErrSchema = errors.New("overpass response schema mismatch")

// Overpass API response types. Pointer fields distinguish absent from zero.

type response struct {
	Version   float64    `json:"version"`
	Generator string     `json:"generator"`
	OSM3S     osm3s      `json:"osm3s"`
	Elements  *[]element `json:"elements"`
}

type osm3s struct {
	TimestampOSMBase string `json:"timestamp_osm_base"`
	Copyright        string `json:"copyright"`
}

type element struct {
	Type string            `json:"type"`
	ID   *int64            `json:"id"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// Decode parses an Overpass JSON document. Any missing element field fails
// the whole document; no partial result is returned.
func Decode(r io.Reader) (domain.POIResponse, error) {
	var resp response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return domain.POIResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Elements == nil {
		return domain.POIResponse{}, fmt.Errorf("%w: missing elements", ErrSchema)
	}

	pois := make([]domain.PointOfInterest, 0, len(*resp.Elements))
	for i, el := range *resp.Elements {
		poi, err := el.toDomain()
		if err != nil {
			return domain.POIResponse{}, fmt.Errorf("%w: element %d: %v", ErrSchema, i, err)
		}
		pois = append(pois, poi)
	}

	return domain.POIResponse{
		POIs: pois,
		Attribution: domain.Attribution{
			Generator:        resp.Generator,
			Version:          resp.Version,
			Copyright:        resp.OSM3S.Copyright,
			TimestampOSMBase: resp.OSM3S.TimestampOSMBase,
		},
	}, nil
}

func (e element) toDomain() (domain.PointOfInterest, error) {
	switch {
	case e.ID == nil:
		return domain.PointOfInterest{}, errors.New("missing id")
	case e.Lat == nil:
		return domain.PointOfInterest{}, errors.New("missing lat")
	case e.Lon == nil:
		return domain.PointOfInterest{}, errors.New("missing lon")
	case e.Tags == nil:
		return domain.PointOfInterest{}, errors.New("missing tags")
	}
	return domain.PointOfInterest{
		ID:   *e.ID,
		Type: e.Type,
		Lat:  *e.Lat,
		Lon:  *e.Lon,
		Tags: e.Tags,
	}, nil
}
