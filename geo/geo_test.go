package geo

import (
	"math"
	"testing"
)

func TestDistanceHaversineMeters(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coordinate
		expected float64
		tol      float64
	}{
		{
			name:     "zero distance",
			a:        Coordinate{Lat: 37.342, Lon: 127.92},
			b:        Coordinate{Lat: 37.342, Lon: 127.92},
			expected: 0,
			tol:      1e-9,
		},
		{
			name:     "one degree of longitude at the equator",
			a:        Coordinate{Lat: 0, Lon: 0},
			b:        Coordinate{Lat: 0, Lon: 1},
			expected: 111195,
			tol:      5,
		},
		{
			name:     "one degree of latitude",
			a:        Coordinate{Lat: 37, Lon: 127},
			b:        Coordinate{Lat: 38, Lon: 127},
			expected: 111195,
			tol:      5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceHaversineMeters(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("expected %.1f m (±%.1f), got %.1f m", tt.expected, tt.tol, got)
			}
		})
	}
}

func TestDistanceApproxMatchesHaversineForShortDistances(t *testing.T) {
	a := Coordinate{Lat: 37.3422, Lon: 127.9202}
	b := Coordinate{Lat: 37.3431, Lon: 127.9215}

	exact := DistanceHaversineMeters(a, b)
	approx := DistanceApproxMeters(a, b)

	if math.Abs(exact-approx) > exact*0.01 {
		t.Errorf("approximation diverged: haversine=%.2f approx=%.2f", exact, approx)
	}
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Coordinate
		expected float64
	}{
		{"due north", Coordinate{0, 0}, Coordinate{1, 0}, 0},
		{"due east", Coordinate{0, 0}, Coordinate{0, 1}, 90},
		{"due south", Coordinate{1, 0}, Coordinate{0, 0}, 180},
		{"due west", Coordinate{0, 1}, Coordinate{0, 0}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("expected %.1f, got %.6f", tt.expected, got)
			}
		})
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{360, 0},
		{361, 1},
		{-90, 270},
		{450, 90},
		{-720, 0},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.input)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalizeAngle(%v): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestInterpolateAngleTakesShortestArc(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		progress float64
		expected float64
	}{
		{"simple midpoint", 0, 90, 0.5, 45},
		{"across north clockwise", 350, 10, 0.5, 0},
		{"across north counter-clockwise", 10, 350, 0.5, 0},
		{"start of interpolation", 120, 240, 0, 120},
		{"end of interpolation", 120, 240, 1, 240},
		{"unnormalized inputs", -10, 370, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateAngle(tt.from, tt.to, tt.progress)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCoordinateIsValid(t *testing.T) {
	if !(Coordinate{Lat: 37.3, Lon: 127.9}).IsValid() {
		t.Error("finite coordinate should be valid")
	}
	if (Coordinate{Lat: math.NaN(), Lon: 127.9}).IsValid() {
		t.Error("NaN latitude should be invalid")
	}
	if (Coordinate{Lat: 37.3, Lon: math.Inf(1)}).IsValid() {
		t.Error("infinite longitude should be invalid")
	}
}
