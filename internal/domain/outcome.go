package domain

import "time"

// ResolutionOutcome is the single settled result of a position request.
// Exactly one of Coords (with Err == nil) or Err is meaningful.
type ResolutionOutcome struct {
	Coords Coordinates
	Err    *Error
}

// Located builds a successful outcome.
func Located(c Coordinates) ResolutionOutcome {
	return ResolutionOutcome{Coords: c}
}

// LocationFailed builds a failed outcome.
func LocationFailed(kind ErrorKind, cause error) ResolutionOutcome {
	return ResolutionOutcome{Err: NewError(kind, "locate", cause)}
}

// OK reports whether the outcome carries coordinates.
func (o ResolutionOutcome) OK() bool { return o.Err == nil }

// Attribution holds the Overpass response envelope. It is informational only.
type Attribution struct {
	Generator        string  `json:"generator,omitempty"`
	Version          float64 `json:"version,omitempty"`
	Copyright        string  `json:"copyright,omitempty"`
	TimestampOSMBase string  `json:"timestamp_osm_base,omitempty"`
}

// POIResponse is what a POISource returns on success.
type POIResponse struct {
	POIs        []PointOfInterest
	Attribution Attribution
}

// QueryResult is the outcome of one lookup. It is Ready when Err is nil.
type QueryResult struct {
	LookupID    string            `json:"lookup_id"`
	AccessedAt  time.Time         `json:"accessed_at"`
	Origin      *Coordinates      `json:"origin,omitempty"`
	POIs        []PointOfInterest `json:"pois"`
	Attribution Attribution       `json:"attribution"`
	Err         *Error            `json:"-"`
}

// Ready reports whether the lookup succeeded.
func (r QueryResult) Ready() bool { return r.Err == nil }

// Outcome names the result for logs and metrics: "ready" or the error kind.
func (r QueryResult) Outcome() string {
	if r.Err == nil {
		return "ready"
	}
	return string(r.Err.Kind)
}
