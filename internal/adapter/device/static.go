// Package device provides Geolocator implementations for environments
// without a browser geolocation API.
package device

import "github.com/couchcryptid/restroom-finder/internal/domain"

// Static reports a fixed position. It calls back synchronously.
type Static struct {
	Position domain.Coordinates
}

// NewStatic creates a Static geolocator.
func NewStatic(lat, lon float64) *Static {
	return &Static{Position: domain.Coordinates{Lat: lat, Lon: lon}}
}

func (s *Static) RequestPosition(onSuccess func(domain.Coordinates), _ func(domain.DeviceError)) {
	onSuccess(s.Position)
}

// Reported replays a failure a remote device already observed, such as a
// browser's geolocation error code.
type Reported struct {
	Err domain.DeviceError
}

// NewReported creates a Reported geolocator for a device error code.
func NewReported(code domain.DeviceErrorCode, message string) *Reported {
	return &Reported{Err: domain.DeviceError{Code: code, Message: message}}
}

func (r *Reported) RequestPosition(_ func(domain.Coordinates), onFailure func(domain.DeviceError)) {
	onFailure(r.Err)
}
