// Package tracker wires the tracking core together: it polls live vehicle
// locations for one route, animates each vehicle along the route polyline,
// resolves travel direction per observation, and exposes the interpolated
// positions for rendering.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polly-transit/tracker/cache"
	"github.com/polly-transit/tracker/config"
	"github.com/polly-transit/tracker/direction"
	"github.com/polly-transit/tracker/feed"
	"github.com/polly-transit/tracker/geo"
	"github.com/polly-transit/tracker/motion"
)

// DataSource is the slice of the feed layer the tracker needs.
type DataSource interface {
	VehicleLocations(ctx context.Context, variantID string) ([]feed.VehicleSample, error)
	RouteSequences(ctx context.Context, routeNo string) ([]direction.RouteSequence, error)
	Polyline(ctx context.Context, variantID string) ([]geo.Coordinate, error)
}

// VehicleState is the renderable state of one tracked vehicle.
type VehicleState struct {
	VehicleID string    `json:"vehicle_id"`
	RouteNo   string    `json:"route_no"`
	VariantID string    `json:"variant_id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Angle     float64   `json:"angle"`
	Direction *int      `json:"direction"` // 0 down, 1 up, null unknown
	NodeID    string    `json:"node_id,omitempty"`
	LastSeen  time.Time `json:"last_seen"`
}

// vehicleMeta is the non-animated part of a vehicle's state.
type vehicleMeta struct {
	variantID string
	nodeID    string
	dir       *int
	lastSeen  time.Time
}

// Tracker tracks the vehicles of a single route. Caches are explicitly
// owned, one per data domain, and live for the tracker's lifetime.
type Tracker struct {
	mu  sync.Mutex
	src DataSource
	cfg *config.AppConfig
	log *zap.Logger

	polylines *cache.Cache[[]geo.Coordinate]
	sequences *cache.Cache[[]direction.RouteSequence]
	anim      *motion.Animator
	resolver  *direction.Resolver

	routeNo  string
	variants []string
	lookup   *direction.Lookup
	vehicles map[string]*vehicleMeta
}

// New creates a tracker polling src. sched drives the animation frames; a
// nil sched gets a ticker at the configured frame interval.
func New(src DataSource, cfg *config.AppConfig, sched motion.Scheduler, log *zap.Logger) *Tracker {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if sched == nil {
		sched = motion.TickerScheduler{
			Interval: time.Duration(cfg.Animation.FrameIntervalMS) * time.Millisecond,
		}
	}
	animCfg := motion.Config{
		Duration:              time.Duration(cfg.Animation.DurationMS) * time.Millisecond,
		JitterThresholdMeters: cfg.Animation.JitterThresholdMeters,
		SnapSearchRadius:      cfg.Animation.SnapSearchRadius,
		BackwardEpsilon:       cfg.Animation.BackwardEpsilon,
	}
	return &Tracker{
		src:       src,
		cfg:       cfg,
		log:       log,
		polylines: cache.New[[]geo.Coordinate](cfg.Cache.MaxEntries),
		sequences: cache.New[[]direction.RouteSequence](cfg.Cache.MaxEntries),
		anim:      motion.New(sched, animCfg, log),
		resolver:  direction.NewResolver(cfg.Direction.UpwardNodeIDs),
		vehicles:  map[string]*vehicleMeta{},
	}
}

// SwitchRoute selects the route to track. Any in-flight animations are
// canceled and the caches retain only the new route's keys.
func (t *Tracker) SwitchRoute(ctx context.Context, routeNo string) error {
	seqs, err := t.sequences.GetOrFetch(ctx, routeNo, func(ctx context.Context) ([]direction.RouteSequence, error) {
		return t.src.RouteSequences(ctx, routeNo)
	})
	if err != nil {
		return fmt.Errorf("sequences for route %s: %w", routeNo, err)
	}
	if len(seqs) == 0 {
		return fmt.Errorf("route %s has no variants", routeNo)
	}

	lookup := direction.BuildLookup(seqs)
	variants := make([]string, 0, len(seqs))
	for _, s := range seqs {
		variants = append(variants, s.VariantID)
	}
	lookup.SetActiveVariants(variants)

	t.mu.Lock()
	t.routeNo = routeNo
	t.variants = variants
	t.lookup = lookup
	t.vehicles = map[string]*vehicleMeta{}
	t.mu.Unlock()

	t.anim.Clear()
	t.sequences.ClearExcept([]string{routeNo})
	t.polylines.ClearExcept(variants)

	t.log.Info("switched route",
		zap.String("route", routeNo),
		zap.Int("variants", len(variants)))
	return nil
}

// Run polls the feed on the configured interval until ctx is canceled.
func (t *Tracker) Run(ctx context.Context) error {
	interval := time.Duration(t.cfg.Feed.PollIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.pollOnce(ctx)
		}
	}
}

// pollOnce fetches one round of samples across the route's variants and
// feeds them to the animator and direction resolver.
func (t *Tracker) pollOnce(ctx context.Context) {
	t.mu.Lock()
	routeNo := t.routeNo
	variants := append([]string(nil), t.variants...)
	lookup := t.lookup
	t.mu.Unlock()
	if routeNo == "" {
		return
	}

	now := time.Now()
	seen := map[string]struct{}{}
	for _, variantID := range variants {
		samples, err := t.src.VehicleLocations(ctx, variantID)
		if err != nil {
			t.log.Warn("vehicle poll failed",
				zap.String("variant", variantID), zap.Error(err))
			continue
		}
		line := t.polylineFor(ctx, variantID)
		for _, s := range samples {
			if !s.Position.IsValid() {
				continue
			}
			seen[s.VehicleID] = struct{}{}
			t.anim.SetTarget(s.VehicleID, s.Position, s.Heading, line)

			var dir *int
			if code, ok := t.resolver.Resolve(lookup, s.NodeID, s.NodeOrder, s.VariantID); ok {
				dir = &code
			}
			t.mu.Lock()
			t.vehicles[s.VehicleID] = &vehicleMeta{
				variantID: variantID,
				nodeID:    s.NodeID,
				dir:       dir,
				lastSeen:  now,
			}
			t.mu.Unlock()
		}
	}

	// Vehicles missing from this round left the route.
	t.mu.Lock()
	var gone []string
	for id := range t.vehicles {
		if _, ok := seen[id]; !ok {
			gone = append(gone, id)
			delete(t.vehicles, id)
		}
	}
	t.mu.Unlock()
	for _, id := range gone {
		t.anim.Remove(id)
	}
}

// polylineFor returns the variant's route geometry, or nil when it cannot be
// loaded. A missing polyline is a degraded mode, not a failure: the animator
// falls back to straight-line interpolation.
func (t *Tracker) polylineFor(ctx context.Context, variantID string) []geo.Coordinate {
	line, err := t.polylines.GetOrFetch(ctx, variantID, func(ctx context.Context) ([]geo.Coordinate, error) {
		return t.src.Polyline(ctx, variantID)
	})
	if err != nil {
		t.log.Debug("polyline unavailable, using linear fallback",
			zap.String("variant", variantID), zap.Error(err))
		return nil
	}
	return line
}

// Snapshot returns the current interpolated state of every tracked vehicle,
// queryable at any time between polls.
func (t *Tracker) Snapshot() []VehicleState {
	t.mu.Lock()
	routeNo := t.routeNo
	metas := make(map[string]vehicleMeta, len(t.vehicles))
	for id, m := range t.vehicles {
		metas[id] = *m
	}
	t.mu.Unlock()

	out := make([]VehicleState, 0, len(metas))
	for id, m := range metas {
		pos, angle, ok := t.anim.Position(id)
		if !ok {
			continue
		}
		out = append(out, VehicleState{
			VehicleID: id,
			RouteNo:   routeNo,
			VariantID: m.variantID,
			Lat:       pos.Lat,
			Lon:       pos.Lon,
			Angle:     angle,
			Direction: m.dir,
			NodeID:    m.nodeID,
			LastSeen:  m.lastSeen,
		})
	}
	return out
}

// Route returns the currently tracked route number.
func (t *Tracker) Route() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.routeNo
}

// CacheStats reports occupancy of the tracker-owned caches.
func (t *Tracker) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"polylines": t.polylines.Stats(),
		"sequences": t.sequences.Stats(),
	}
}
