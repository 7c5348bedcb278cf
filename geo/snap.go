package geo

import "math"

// DefaultSearchRadius is the number of segments examined on each side of the
// segment hint when snapping with a bounded window.
const DefaultSearchRadius = 80

// SnapResult describes the closest location on a polyline to a query point.
type SnapResult struct {
	Position     Coordinate
	Angle        float64 // bearing of the matched segment, [0, 360)
	SegmentIndex int     // in [0, len(polyline)-2]
	T            float64 // fractional position along the segment, [0, 1]
}

// SnapOptions bounds the segment search. A SegmentHint < 0 requests a full
// scan of every segment. With a hint, only segments within SearchRadius of
// the hint are examined; MinSegmentIndex optionally floors the window.
type SnapOptions struct {
	SegmentHint     int
	SearchRadius    int
	MinSegmentIndex int
}

// FullScan requests an unbounded snap over every segment of the polyline.
var FullScan = SnapOptions{SegmentHint: -1}

// ProjectPointOnSegment returns the orthogonal projection of p onto the
// segment a-b, clamped to the segment, together with the clamped parametric
// t in [0, 1]. The degenerate case a == b returns a with t = 0.
func ProjectPointOnSegment(p, a, b Coordinate) (Coordinate, float64) {
	dLat := b.Lat - a.Lat
	dLon := b.Lon - a.Lon

	denom := dLat*dLat + dLon*dLon
	if denom == 0 {
		return a, 0
	}

	t := ((p.Lat-a.Lat)*dLat + (p.Lon-a.Lon)*dLon) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Coordinate{Lat: a.Lat + t*dLat, Lon: a.Lon + t*dLon}, t
}

// SnapToPolyline projects point onto the polyline and returns the closest
// candidate among the segments examined. Polylines shorter than two points
// cannot be snapped onto and report ok = false. Ties are broken by the first
// minimal candidate in scan order.
func SnapToPolyline(point Coordinate, polyline []Coordinate, opts SnapOptions) (SnapResult, bool) {
	if len(polyline) < 2 {
		return SnapResult{}, false
	}

	lo, hi := 0, len(polyline)-2
	if opts.SegmentHint >= 0 {
		radius := opts.SearchRadius
		if radius <= 0 {
			radius = DefaultSearchRadius
		}
		lo = opts.SegmentHint - radius
		hi = opts.SegmentHint + radius
	}
	if opts.MinSegmentIndex > lo {
		lo = opts.MinSegmentIndex
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(polyline)-2 {
		hi = len(polyline) - 2
	}
	if lo > hi {
		lo = hi
	}

	var best SnapResult
	bestDist := math.MaxFloat64
	for i := lo; i <= hi; i++ {
		pos, t := ProjectPointOnSegment(point, polyline[i], polyline[i+1])
		d := squaredApprox(point, pos)
		if d < bestDist {
			bestDist = d
			best = SnapResult{
				Position:     pos,
				Angle:        BearingDegrees(polyline[i], polyline[i+1]),
				SegmentIndex: i,
				T:            t,
			}
		}
	}
	return best, true
}

// squaredApprox is the squared equirectangular distance in radians,
// monotonic with DistanceApproxMeters and free of the sqrt.
func squaredApprox(a, b Coordinate) float64 {
	x := (b.Lon - a.Lon) * degToRad * math.Cos((a.Lat+b.Lat)*0.5*degToRad)
	y := (b.Lat - a.Lat) * degToRad
	return x*x + y*y
}
