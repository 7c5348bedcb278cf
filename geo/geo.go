package geo

import "math"

const earthRadiusMeters = 6371000.0

const degToRad = math.Pi / 180

// Coordinate is a point as (latitude, longitude) in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// IsValid reports whether both components are finite numbers.
func (c Coordinate) IsValid() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lon) && !math.IsInf(c.Lon, 0)
}

// DistanceHaversineMeters returns the great-circle distance between a and b
// in meters, on a sphere of radius 6371 km.
func DistanceHaversineMeters(a, b Coordinate) float64 {
	phi1 := a.Lat * degToRad
	phi2 := b.Lat * degToRad
	deltaPhi := (b.Lat - a.Lat) * degToRad
	deltaLambda := (b.Lon - a.Lon) * degToRad

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// DistanceApproxMeters returns the equirectangular approximation of the
// distance between a and b in meters. Cheaper than haversine and accurate
// enough for the short distances seen on the animation hot path.
func DistanceApproxMeters(a, b Coordinate) float64 {
	x := (b.Lon - a.Lon) * degToRad * math.Cos((a.Lat+b.Lat)*0.5*degToRad)
	y := (b.Lat - a.Lat) * degToRad
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// BearingDegrees returns the initial compass bearing from a to b in [0, 360).
func BearingDegrees(a, b Coordinate) float64 {
	phi1 := a.Lat * degToRad
	phi2 := b.Lat * degToRad
	deltaLambda := (b.Lon - a.Lon) * degToRad

	x := math.Sin(deltaLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	bearing := math.Atan2(x, y) / degToRad
	return math.Mod(bearing+360, 360)
}

// NormalizeAngle reduces any angle in degrees to [0, 360).
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}

// InterpolateAngle interpolates between two angles along the shortest arc,
// so a marker never rotates the long way around. progress is in [0, 1].
func InterpolateAngle(from, to, progress float64) float64 {
	from = NormalizeAngle(from)
	to = NormalizeAngle(to)
	delta := math.Mod(to-from+540, 360) - 180
	return NormalizeAngle(from + delta*progress)
}
