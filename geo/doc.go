// Package geo provides the geometric primitives used for vehicle tracking:
// distance metrics, compass bearings, angle interpolation, and projection of
// GPS points onto route polylines ("snapping").
//
// All functions are pure and operate on plain latitude/longitude pairs. No
// coordinate-system conversion is performed; callers must pass consistent
// coordinates throughout.
package geo
