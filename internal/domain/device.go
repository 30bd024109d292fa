package domain

import "fmt"

// DeviceErrorCode is the numeric code a device reports on failure.
type DeviceErrorCode int

// Codes follow the W3C Geolocation API PositionError values.
const (
	DevicePermissionDenied    DeviceErrorCode = 1
	DevicePositionUnavailable DeviceErrorCode = 2
	DeviceTimeout             DeviceErrorCode = 3
)

// DeviceError is the payload of a device failure callback.
type DeviceError struct {
	Code    DeviceErrorCode
	Message string
}

func (e DeviceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("device error %d", e.Code)
	}
	return fmt.Sprintf("device error %d: %s", e.Code, e.Message)
}

// Kind maps the device code onto the lookup error taxonomy.
func (e DeviceError) Kind() ErrorKind {
	switch e.Code {
	case DevicePermissionDenied:
		return KindPermissionDenied
	case DeviceTimeout:
		return KindTimeout
	default:
		return KindUnavailable
	}
}
