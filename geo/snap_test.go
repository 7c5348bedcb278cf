package geo

import (
	"math"
	"testing"
)

func TestProjectPointOnSegment(t *testing.T) {
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 0, Lon: 2}

	tests := []struct {
		name      string
		p         Coordinate
		expectPos Coordinate
		expectT   float64
	}{
		{"interior projection", Coordinate{Lat: 1, Lon: 1}, Coordinate{Lat: 0, Lon: 1}, 0.5},
		{"clamped before start", Coordinate{Lat: 0, Lon: -5}, a, 0},
		{"clamped after end", Coordinate{Lat: 0, Lon: 7}, b, 1},
		{"point on segment", Coordinate{Lat: 0, Lon: 0.5}, Coordinate{Lat: 0, Lon: 0.5}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, tp := ProjectPointOnSegment(tt.p, a, b)
			if math.Abs(pos.Lat-tt.expectPos.Lat) > 1e-9 || math.Abs(pos.Lon-tt.expectPos.Lon) > 1e-9 {
				t.Errorf("expected position %v, got %v", tt.expectPos, pos)
			}
			if math.Abs(tp-tt.expectT) > 1e-9 {
				t.Errorf("expected t=%v, got %v", tt.expectT, tp)
			}
		})
	}
}

func TestProjectPointOnSegmentDegenerate(t *testing.T) {
	a := Coordinate{Lat: 3, Lon: 4}
	pos, tp := ProjectPointOnSegment(Coordinate{Lat: 9, Lon: 9}, a, a)
	if pos != a || tp != 0 {
		t.Errorf("degenerate segment should return its endpoint with t=0, got %v t=%v", pos, tp)
	}
}

func TestSnapToPolylineBasic(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}

	res, ok := SnapToPolyline(Coordinate{Lat: 0, Lon: 0.5}, line, FullScan)
	if !ok {
		t.Fatal("snap should succeed on a polyline with 3 vertices")
	}
	if res.SegmentIndex != 0 {
		t.Errorf("expected segment 0, got %d", res.SegmentIndex)
	}
	if math.Abs(res.T-0.5) > 1e-9 {
		t.Errorf("expected t=0.5, got %v", res.T)
	}
	if math.Abs(res.Position.Lon-0.5) > 1e-9 || math.Abs(res.Position.Lat) > 1e-9 {
		t.Errorf("expected position (0, 0.5), got %v", res.Position)
	}
	wantAngle := BearingDegrees(line[0], line[1])
	if math.Abs(res.Angle-wantAngle) > 1e-9 {
		t.Errorf("expected angle %v, got %v", wantAngle, res.Angle)
	}
}

func TestSnapToPolylineInvariants(t *testing.T) {
	line := []Coordinate{
		{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 3}, {Lat: 0, Lon: 4}, {Lat: 2, Lon: 6},
	}
	queries := []Coordinate{
		{Lat: -1, Lon: -1}, {Lat: 0.5, Lon: 0.5}, {Lat: 1.5, Lon: 2}, {Lat: 5, Lon: 10}, {Lat: 0, Lon: 3.5},
	}

	for _, q := range queries {
		res, ok := SnapToPolyline(q, line, FullScan)
		if !ok {
			t.Fatalf("snap failed for %v", q)
		}
		if res.SegmentIndex < 0 || res.SegmentIndex > len(line)-2 {
			t.Errorf("segment index %d out of range for query %v", res.SegmentIndex, q)
		}
		if res.T < 0 || res.T > 1 {
			t.Errorf("t=%v out of range for query %v", res.T, q)
		}
		if res.Angle < 0 || res.Angle >= 360 {
			t.Errorf("angle %v out of range for query %v", res.Angle, q)
		}
	}
}

func TestSnapToPolylineAtVertex(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 2}}

	for k := 1; k < len(line)-1; k++ {
		res, ok := SnapToPolyline(line[k], line, FullScan)
		if !ok {
			t.Fatal("snap failed")
		}
		if d := DistanceApproxMeters(res.Position, line[k]); d > 0.01 {
			t.Errorf("vertex %d: expected zero distance, got %.4f m", k, d)
		}
		if res.SegmentIndex != k-1 && res.SegmentIndex != k {
			t.Errorf("vertex %d: expected segment %d or %d, got %d", k, k-1, k, res.SegmentIndex)
		}
	}
}

func TestSnapToPolylineHintWindow(t *testing.T) {
	// A path that doubles back: the query is nearest to segment 0, but a
	// hint around segment 4 must keep the search local.
	line := []Coordinate{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0.5, Lon: 1}, {Lat: 0.5, Lon: 0},
		{Lat: 0.1, Lon: 0}, {Lat: 0.1, Lon: 1}, {Lat: 0.2, Lon: 1}, {Lat: 0.2, Lon: 0},
	}
	query := Coordinate{Lat: 0.01, Lon: 0.5}

	full, _ := SnapToPolyline(query, line, FullScan)
	if full.SegmentIndex != 0 {
		t.Fatalf("expected full scan to pick segment 0, got %d", full.SegmentIndex)
	}

	hinted, _ := SnapToPolyline(query, line, SnapOptions{SegmentHint: 4, SearchRadius: 1})
	if hinted.SegmentIndex < 3 || hinted.SegmentIndex > 5 {
		t.Errorf("hinted snap escaped the window: segment %d", hinted.SegmentIndex)
	}
}

func TestSnapToPolylineMinSegmentIndex(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 3}}
	query := Coordinate{Lat: 0, Lon: 0.2}

	res, ok := SnapToPolyline(query, line, SnapOptions{SegmentHint: -1, MinSegmentIndex: 2})
	if !ok {
		t.Fatal("snap failed")
	}
	if res.SegmentIndex < 2 {
		t.Errorf("expected floor at segment 2, got %d", res.SegmentIndex)
	}
	if res.T != 0 {
		t.Errorf("expected clamp to segment start, got t=%v", res.T)
	}
}

func TestSnapToPolylineTooShort(t *testing.T) {
	if _, ok := SnapToPolyline(Coordinate{}, nil, FullScan); ok {
		t.Error("nil polyline should not snap")
	}
	if _, ok := SnapToPolyline(Coordinate{}, []Coordinate{{Lat: 1, Lon: 1}}, FullScan); ok {
		t.Error("single-point polyline should not snap")
	}
}

func TestLineLengthMeters(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}
	got := LineLengthMeters(line)
	want := 2 * DistanceHaversineMeters(line[0], line[1])
	if math.Abs(got-want) > 1 {
		t.Errorf("expected %.1f, got %.1f", want, got)
	}
	if LineLengthMeters(nil) != 0 {
		t.Error("empty polyline should have zero length")
	}
}

func TestBoundingBox(t *testing.T) {
	line := []Coordinate{{Lat: 1, Lon: 4}, {Lat: -2, Lon: 9}, {Lat: 3, Lon: 7}}
	box, ok := BoundingBox(line)
	if !ok {
		t.Fatal("bounding box should exist")
	}
	want := [4]float64{4, -2, 9, 3}
	if box != want {
		t.Errorf("expected %v, got %v", want, box)
	}
	if _, ok := BoundingBox(nil); ok {
		t.Error("empty polyline should have no bounding box")
	}
}

func TestNearestVertexIndex(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}
	if got := NearestVertexIndex(Coordinate{Lat: 0.1, Lon: 1.1}, line); got != 1 {
		t.Errorf("expected vertex 1, got %d", got)
	}
	if got := NearestVertexIndex(Coordinate{}, nil); got != -1 {
		t.Errorf("expected -1 for empty polyline, got %d", got)
	}
}
