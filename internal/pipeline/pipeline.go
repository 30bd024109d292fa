// Package pipeline chains position resolution into the points-of-interest
// query and reports both stages through a single QueryResult.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/locate"
	"github.com/couchcryptid/restroom-finder/internal/observability"
)

// Publisher receives every settled lookup. Publishing is best-effort.
type Publisher interface {
	Publish(ctx context.Context, result domain.QueryResult) error
}

// Finder runs lookups. It holds no per-lookup state, so concurrent lookups
// do not interfere.
type Finder struct {
	device    domain.Geolocator
	source    domain.POISource
	publisher Publisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Finder. device may be nil (lookups fail as unsupported) and
// publisher may be nil (nothing is published).
func New(device domain.Geolocator, source domain.POISource, publisher Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Finder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Finder{
		device:    device,
		source:    source,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a lookup has reached the query service,
// or an error describing why the service is not yet ready.
func (f *Finder) CheckReadiness(_ context.Context) error {
	if !f.ready.Load() {
		return errors.New("no lookup has reached the query service yet")
	}
	return nil
}

// FetchNearby locates the configured device and queries for nearby restrooms.
func (f *Finder) FetchNearby(ctx context.Context) domain.QueryResult {
	return f.FetchNearbyWith(ctx, f.device)
}

// FetchNearbyWith runs a lookup against the given geolocator instead of the
// configured one.
//
// The caller's ctx bounds both waits. If it ends before the device settles,
// the lookup fails as a timeout and the query is never sent.
func (f *Finder) FetchNearbyWith(ctx context.Context, device domain.Geolocator) domain.QueryResult {
	start := f.clock.Now()
	id := uuid.NewString()
	logger := f.logger.With("lookup_id", id)

	result := f.run(ctx, device, logger)
	result.LookupID = id
	result.AccessedAt = f.clock.Now().UTC()

	f.metrics.Lookups.WithLabelValues(result.Outcome()).Inc()
	f.metrics.LookupLatency.Observe(f.clock.Since(start).Seconds())
	if result.Ready() {
		f.metrics.POIsPerLookup.Observe(float64(len(result.POIs)))
		logger.Info("lookup complete", "pois", len(result.POIs))
	} else {
		logger.Warn("lookup failed", "kind", result.Err.Kind, "error", result.Err)
	}

	f.publish(ctx, result, logger)
	return result
}

func (f *Finder) run(ctx context.Context, device domain.Geolocator, logger *slog.Logger) domain.QueryResult {
	waitStart := f.clock.Now()
	resolver := locate.NewResolver(device, logger, f.metrics)
	outcome, err := resolver.Resolve().Await(ctx)
	f.metrics.LocationWait.Observe(f.clock.Since(waitStart).Seconds())
	if err != nil {
		return domain.QueryResult{Err: domain.NewError(domain.KindTimeout, "locate", err)}
	}
	if !outcome.OK() {
		return domain.QueryResult{Err: outcome.Err}
	}

	origin := outcome.Coords
	f.ready.Store(true)

	resp, err := f.source.Nearby(ctx, origin)
	if err != nil {
		return domain.QueryResult{
			Origin: &origin,
			Err:    domain.NewError(domain.KindFetchFailed, "fetch", err),
		}
	}
	return domain.QueryResult{
		Origin:      &origin,
		POIs:        resp.POIs,
		Attribution: resp.Attribution,
	}
}

func (f *Finder) publish(ctx context.Context, result domain.QueryResult, logger *slog.Logger) {
	if f.publisher == nil {
		return
	}
	// The lookup is already settled; a cancelled request should not drop the record.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := f.publisher.Publish(pubCtx, result); err != nil {
		f.metrics.PublishErrors.Inc()
		logger.Warn("publish lookup failed", "error", err)
	}
}
