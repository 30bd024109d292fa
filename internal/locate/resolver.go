// Package locate turns a callback-driven geolocator into a position that can
// be awaited once.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/observability"
	"github.com/couchcryptid/restroom-finder/internal/oneshot"
)

var errNoCapability = errors.New("no location capability")

// Resolver requests the current position from a Geolocator.
// It holds no per-request state; every Resolve call owns its own gate.
type Resolver struct {
	device  domain.Geolocator
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResolver creates a Resolver. A nil device resolves as unsupported.
func NewResolver(device domain.Geolocator, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		device:  device,
		logger:  logger,
		metrics: metrics,
	}
}

// Pending is an in-flight position request.
type Pending struct {
	cell *oneshot.Cell[domain.ResolutionOutcome]
}

// Done is closed once the request has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.cell.Done()
}

// Await blocks until the request settles. It returns ctx.Err() if the caller
// stops waiting first; the device request itself keeps running.
func (p *Pending) Await(ctx context.Context) (domain.ResolutionOutcome, error) {
	return p.cell.Wait(ctx)
}

// Resolve asks the device for its position. It never blocks and never
// fails directly; the outcome is delivered through the returned Pending.
func (r *Resolver) Resolve() *Pending {
	p := &Pending{cell: oneshot.New[domain.ResolutionOutcome]()}

	if !r.available() {
		r.settle(p, domain.LocationFailed(domain.KindUnsupported, errNoCapability))
		return p
	}

	onSuccess := func(c domain.Coordinates) {
		if err := c.Validate(); err != nil {
			r.settle(p, domain.LocationFailed(domain.KindUnavailable, err))
			return
		}
		r.settle(p, domain.Located(c))
	}
	onFailure := func(e domain.DeviceError) {
		r.settle(p, domain.LocationFailed(e.Kind(), e))
	}

	r.request(p, onSuccess, onFailure)
	return p
}

func (r *Resolver) available() bool {
	if r.device == nil {
		return false
	}
	if a, ok := r.device.(domain.AvailabilityReporter); ok {
		return a.Available()
	}
	return true
}

// request registers the callbacks. A panicking geolocator settles the
// request as unavailable instead of unwinding into the caller.
func (r *Resolver) request(p *Pending, onSuccess func(domain.Coordinates), onFailure func(domain.DeviceError)) {
	defer func() {
		if rec := recover(); rec != nil {
			r.settle(p, domain.LocationFailed(domain.KindUnavailable, fmt.Errorf("geolocator panic: %v", rec)))
		}
	}()
	r.device.RequestPosition(onSuccess, onFailure)
}

func (r *Resolver) settle(p *Pending, o domain.ResolutionOutcome) {
	if !p.cell.Settle(o) {
		r.metrics.LocationLateCallbacks.Inc()
		r.logger.Debug("ignoring device callback after settlement", "outcome", outcomeLabel(o))
		return
	}
	r.metrics.LocationOutcomes.WithLabelValues(outcomeLabel(o)).Inc()
	if o.OK() {
		r.logger.Debug("position resolved", "lat", o.Coords.Lat, "lon", o.Coords.Lon)
	} else {
		r.logger.Debug("position unavailable", "kind", o.Err.Kind, "error", o.Err.Err)
	}
}

func outcomeLabel(o domain.ResolutionOutcome) string {
	if o.OK() {
		return "located"
	}
	return string(o.Err.Kind)
}
