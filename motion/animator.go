package motion

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polly-transit/tracker/geo"
)

// Config carries the tuned animation thresholds. The defaults are empirical
// values carried over from the production deployment.
type Config struct {
	// Duration of a single animation from the current position to a new
	// target.
	Duration time.Duration
	// JitterThresholdMeters separates GPS jitter from a genuine backward
	// movement: backward steps shorter than this are discarded.
	JitterThresholdMeters float64
	// SnapSearchRadius is the segment window examined around the last known
	// segment when snapping.
	SnapSearchRadius int
	// BackwardEpsilon tolerates near-zero floating jitter in the parametric
	// position when classifying same-segment movement.
	BackwardEpsilon float64
}

func (c *Config) applyDefaults() {
	if c.Duration <= 0 {
		c.Duration = 3 * time.Second
	}
	if c.JitterThresholdMeters <= 0 {
		c.JitterThresholdMeters = 12
	}
	if c.SnapSearchRadius <= 0 {
		c.SnapSearchRadius = geo.DefaultSearchRadius
	}
	if c.BackwardEpsilon <= 0 {
		c.BackwardEpsilon = 1e-3
	}
}

// session is the per-vehicle animation state, owned by the Animator and
// mutated only under its lock.
type session struct {
	current      geo.Coordinate
	currentAngle float64

	path  []geo.Coordinate
	cum   []float64 // cumulative path length in meters
	total float64

	startTime  time.Time
	startAngle float64
	endAngle   float64
	end        geo.Coordinate

	segmentHint int
	lastTarget  geo.Coordinate

	animating   bool
	gen         uint64
	cancelFrame func()
}

// Animator maintains a continuously-queryable interpolated position and
// angle per tracked vehicle. Safe for concurrent use; frame callbacks and
// sample feeds may arrive on different goroutines.
type Animator struct {
	mu       sync.Mutex
	sched    Scheduler
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
	frameGen uint64
	sessions map[string]*session
}

// New creates an Animator driving frames through sched.
func New(sched Scheduler, cfg Config, log *zap.Logger) *Animator {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Animator{
		sched:    sched,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sessions: map[string]*session{},
	}
}

// Position returns the current interpolated position and angle for id.
func (a *Animator) Position(id string) (geo.Coordinate, float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[id]
	if !ok {
		return geo.Coordinate{}, 0, false
	}
	return s.current, s.currentAngle, true
}

// Tracked returns the ids of all vehicles with a live session.
func (a *Animator) Tracked() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.sessions))
	for id := range a.sessions {
		ids = append(ids, id)
	}
	return ids
}

// SetTarget feeds a new target sample for a vehicle. heading may be NaN when
// the feed carries no bearing. polyline is the vehicle's route geometry;
// fewer than two points degrades to straight-line interpolation.
func (a *Animator) SetTarget(id string, target geo.Coordinate, heading float64, polyline []geo.Coordinate) {
	if !target.IsValid() {
		a.log.Debug("discarding malformed sample", zap.String("vehicle", id))
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.sessions[id]
	if !ok {
		a.sessions[id] = a.newSnappedSession(target, heading, polyline)
		return
	}

	if target == s.lastTarget {
		// Same coordinates as the previous target: never restart the
		// animation, only refresh the angle.
		if finite(heading) {
			s.currentAngle = geo.NormalizeAngle(heading)
		}
		return
	}

	if len(polyline) < 2 {
		a.log.Debug("no usable polyline, falling back to linear interpolation",
			zap.String("vehicle", id))
		s.lastTarget = target
		a.startLinear(id, s, target, heading)
		return
	}

	opts := geo.SnapOptions{SegmentHint: s.segmentHint, SearchRadius: a.cfg.SnapSearchRadius}
	start, _ := geo.SnapToPolyline(s.current, polyline, opts)
	end, _ := geo.SnapToPolyline(target, polyline, opts)

	forward := end.SegmentIndex > start.SegmentIndex ||
		(end.SegmentIndex == start.SegmentIndex && end.T >= start.T-a.cfg.BackwardEpsilon)

	if forward {
		path := buildForwardPath(start, end, polyline)
		s.lastTarget = target
		s.segmentHint = end.SegmentIndex
		a.startAnimation(id, s, path, pickAngle(heading, end.Angle))
		return
	}

	behind := geo.DistanceApproxMeters(start.Position, end.Position)
	if behind < a.cfg.JitterThresholdMeters {
		// Sensor noise: drop the update and leave the whole session
		// untouched, lastTarget included, so a repeated jitter sample is
		// re-classified and discarded again rather than treated as the
		// previous target.
		a.log.Debug("discarding backward jitter",
			zap.String("vehicle", id), zap.Float64("meters", behind))
		return
	}

	// Legitimate correction or genuine reverse movement: teleport.
	a.cancelFrameLocked(s)
	s.lastTarget = target
	s.current = end.Position
	s.currentAngle = pickAngle(heading, end.Angle)
	s.segmentHint = end.SegmentIndex
	s.animating = false
	a.log.Debug("teleporting on large backward correction",
		zap.String("vehicle", id), zap.Float64("meters", behind))
}

// Reset cancels any in-flight animation for id and installs a fresh snapped
// state from the given polyline and target, bypassing classification. Used
// when a vehicle's route changes.
func (a *Animator) Reset(id string, target geo.Coordinate, heading float64, polyline []geo.Coordinate) {
	if !target.IsValid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[id]; ok {
		a.cancelFrameLocked(s)
	}
	a.sessions[id] = a.newSnappedSession(target, heading, polyline)
}

// Remove stops tracking id and cancels its animation.
func (a *Animator) Remove(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[id]; ok {
		a.cancelFrameLocked(s)
		delete(a.sessions, id)
	}
}

// Clear cancels every animation and drops all sessions.
func (a *Animator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, s := range a.sessions {
		a.cancelFrameLocked(s)
		delete(a.sessions, id)
	}
}

func (a *Animator) newSnappedSession(target geo.Coordinate, heading float64, polyline []geo.Coordinate) *session {
	s := &session{lastTarget: target, segmentHint: -1}
	if snap, ok := geo.SnapToPolyline(target, polyline, geo.FullScan); ok {
		s.current = snap.Position
		s.currentAngle = pickAngle(heading, snap.Angle)
		s.segmentHint = snap.SegmentIndex
	} else {
		s.current = target
		s.currentAngle = pickAngle(heading, 0)
	}
	return s
}

// startLinear animates straight between the raw current and target
// coordinates. There is no path to reason about ordering along, so no
// jitter or backward classification applies.
func (a *Animator) startLinear(id string, s *session, target geo.Coordinate, heading float64) {
	endAngle := s.currentAngle
	if finite(heading) {
		endAngle = geo.NormalizeAngle(heading)
	} else if s.current != target {
		endAngle = geo.BearingDegrees(s.current, target)
	}
	a.startAnimation(id, s, []geo.Coordinate{s.current, target}, endAngle)
}

func (a *Animator) startAnimation(id string, s *session, path []geo.Coordinate, endAngle float64) {
	a.cancelFrameLocked(s)

	cum := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		cum[i] = cum[i-1] + geo.DistanceApproxMeters(path[i-1], path[i])
	}
	total := 0.0
	if len(cum) > 0 {
		total = cum[len(cum)-1]
	}
	end := s.current
	if len(path) > 0 {
		end = path[len(path)-1]
	}
	if total == 0 {
		// Nothing to travel: settle immediately at the exact target.
		s.current = end
		s.currentAngle = endAngle
		s.animating = false
		return
	}

	s.path = path
	s.cum = cum
	s.total = total
	s.end = end
	s.startTime = a.now()
	s.startAngle = s.currentAngle
	s.endAngle = endAngle
	s.animating = true
	a.frameGen++
	gen := a.frameGen
	s.gen = gen
	s.cancelFrame = a.sched.ScheduleFrame(func(now time.Time) { a.step(id, gen, now) })
}

// step advances one animation frame. It re-arms the scheduler until the
// session settles or is canceled; the newest target always wins because
// starting a new animation cancels the previous frame chain first. A timer
// that fired before cancellation still invokes its callback, so each frame
// carries the generation it was armed under and a stale one is dropped here
// instead of re-arming a second chain.
func (a *Animator) step(id string, gen uint64, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[id]
	if !ok || !s.animating || s.gen != gen {
		return
	}

	progress := float64(now.Sub(s.startTime)) / float64(a.cfg.Duration)
	if progress >= 1 {
		// Snap to the exact target to shed floating-point residual.
		s.current = s.end
		s.currentAngle = s.endAngle
		s.animating = false
		s.cancelFrame = nil
		return
	}
	if progress < 0 {
		progress = 0
	}
	eased := easeOutCubic(progress)

	pos, seg := pointAtDistance(s.path, s.cum, eased*s.total)
	s.current = pos
	if len(s.path) > 1 {
		s.currentAngle = geo.BearingDegrees(s.path[seg], s.path[seg+1])
	} else {
		s.currentAngle = geo.InterpolateAngle(s.startAngle, s.endAngle, eased)
	}

	s.cancelFrame = a.sched.ScheduleFrame(func(t time.Time) { a.step(id, gen, t) })
}

func (a *Animator) cancelFrameLocked(s *session) {
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	s.animating = false
}

// buildForwardPath assembles [start, vertices strictly between the two
// segments, end], skipping duplicate consecutive points so the arc-length
// walk stays well defined.
func buildForwardPath(start, end geo.SnapResult, polyline []geo.Coordinate) []geo.Coordinate {
	path := make([]geo.Coordinate, 0, end.SegmentIndex-start.SegmentIndex+2)
	path = append(path, start.Position)
	for i := start.SegmentIndex + 1; i <= end.SegmentIndex; i++ {
		path = appendDistinct(path, polyline[i])
	}
	return appendDistinct(path, end.Position)
}

func appendDistinct(path []geo.Coordinate, c geo.Coordinate) []geo.Coordinate {
	if len(path) > 0 && path[len(path)-1] == c {
		return path
	}
	return append(path, c)
}

// pointAtDistance walks the path by cumulative arc length and returns the
// interpolated position plus the index of the active segment.
func pointAtDistance(path []geo.Coordinate, cum []float64, dist float64) (geo.Coordinate, int) {
	if len(path) == 0 {
		return geo.Coordinate{}, 0
	}
	if len(path) == 1 || dist <= 0 {
		return path[0], 0
	}
	last := len(path) - 1
	if dist >= cum[last] {
		return path[last], last - 1
	}
	seg := 0
	for i := 1; i <= last; i++ {
		if cum[i] >= dist {
			seg = i - 1
			break
		}
	}
	span := cum[seg+1] - cum[seg]
	t := 0.0
	if span > 0 {
		t = (dist - cum[seg]) / span
	}
	return geo.Coordinate{
		Lat: path[seg].Lat + t*(path[seg+1].Lat-path[seg].Lat),
		Lon: path[seg].Lon + t*(path[seg+1].Lon-path[seg].Lon),
	}, seg
}

// easeOutCubic biases motion toward deceleration near the target.
func easeOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

func pickAngle(heading, fallback float64) float64 {
	if finite(heading) {
		return geo.NormalizeAngle(heading)
	}
	return geo.NormalizeAngle(fallback)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
