// Package domain models the nearby-restroom lookup: where the device is, what
// the Overpass API reports around it, and how either step can fail.
//
// # Flow
//
// A lookup runs two dependent stages. The device is asked for its position
// through a callback-driven [Geolocator]; the first callback to fire settles a
// [ResolutionOutcome]. On success the coordinates are handed to a [POISource],
// which issues a single Overpass query. Both stages report failure through the
// returned [QueryResult]; nothing is retried.
//
// # Device Error Codes
//
// Device errors carry the numeric codes used by the W3C Geolocation API:
//
//	1  PERMISSION_DENIED     →  KindPermissionDenied
//	2  POSITION_UNAVAILABLE  →  KindUnavailable
//	3  TIMEOUT               →  KindTimeout
//
// Any other code maps to KindUnavailable. A missing capability never produces
// a device error; it settles as KindUnsupported before anything is requested.
//
// # Overpass Query
//
// The query is fixed apart from the position:
//
//	[out:json];node["amenity"="toilets"](around:2000,<lat>,<lon>);out;
//
// Radius is in meters. Coordinates are written with the shortest decimal
// representation that round-trips, so negative and fractional values survive
// unchanged.
package domain
