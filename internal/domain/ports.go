package domain

import "context"

// Geolocator is a callback-driven "get current position" capability.
//
// RequestPosition must call at most one of the two callbacks, at most once,
// on any goroutine, either before or after it returns. Callers must not rely
// on implementations honouring that contract.
type Geolocator interface {
	RequestPosition(onSuccess func(Coordinates), onFailure func(DeviceError))
}

// AvailabilityReporter is implemented by geolocators that can tell, without
// prompting the user, that no position can ever be obtained.
type AvailabilityReporter interface {
	Available() bool
}

// POISource finds points of interest near a position.
type POISource interface {
	// Nearby issues exactly one query and returns elements in response order.
	Nearby(ctx context.Context, at Coordinates) (POIResponse, error)
}
