package geo

import "math"

// LineLengthMeters returns the total length of the polyline in meters.
func LineLengthMeters(polyline []Coordinate) float64 {
	var total float64
	for i := 1; i < len(polyline); i++ {
		total += DistanceHaversineMeters(polyline[i-1], polyline[i])
	}
	return total
}

// BoundingBox returns [minLon, minLat, maxLon, maxLat] for the polyline and
// reports false when the polyline is empty.
func BoundingBox(polyline []Coordinate) ([4]float64, bool) {
	if len(polyline) == 0 {
		return [4]float64{}, false
	}
	box := [4]float64{180, 90, -180, -90}
	for _, c := range polyline {
		if c.Lon < box[0] {
			box[0] = c.Lon
		}
		if c.Lat < box[1] {
			box[1] = c.Lat
		}
		if c.Lon > box[2] {
			box[2] = c.Lon
		}
		if c.Lat > box[3] {
			box[3] = c.Lat
		}
	}
	return box, true
}

// NearestVertexIndex returns the index of the polyline vertex closest to
// point, or -1 for an empty polyline.
func NearestVertexIndex(point Coordinate, polyline []Coordinate) int {
	bestIdx := -1
	minDist := math.MaxFloat64
	for i, c := range polyline {
		d := DistanceApproxMeters(point, c)
		if d < minDist {
			minDist = d
			bestIdx = i
		}
	}
	return bestIdx
}
