package domain

import "time"

// LookupRecord is the serialized form of a QueryResult, shared by the JSON
// API and the Kafka publisher.
type LookupRecord struct {
	LookupID    string       `json:"lookup_id"`
	AccessedAt  time.Time    `json:"accessed_at"`
	Outcome     string       `json:"outcome"`
	Origin      *Coordinates `json:"origin,omitempty"`
	POIs        []POIRecord  `json:"pois"`
	Attribution *Attribution `json:"attribution,omitempty"`
	Error       *ErrorRecord `json:"error,omitempty"`
}

// POIRecord is a PointOfInterest with its derived links.
type POIRecord struct {
	PointOfInterest
	OSMURL        string `json:"osm_url"`
	DirectionsURL string `json:"directions_url"`
}

// ErrorRecord describes a failed lookup.
type ErrorRecord struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// NewLookupRecord converts a result for serialization.
func NewLookupRecord(r QueryResult) LookupRecord {
	rec := LookupRecord{
		LookupID:   r.LookupID,
		AccessedAt: r.AccessedAt,
		Outcome:    r.Outcome(),
		Origin:     r.Origin,
		POIs:       make([]POIRecord, 0, len(r.POIs)),
	}
	for _, p := range r.POIs {
		rec.POIs = append(rec.POIs, POIRecord{
			PointOfInterest: p,
			OSMURL:          p.OSMURL(),
			DirectionsURL:   p.DirectionsURL(),
		})
	}
	if r.Err != nil {
		rec.Error = &ErrorRecord{Kind: r.Err.Kind, Message: r.Err.Error()}
	} else {
		a := r.Attribution
		rec.Attribution = &a
	}
	return rec
}
