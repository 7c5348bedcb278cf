package feed

import "github.com/polly-transit/tracker/geo"

// RouteSummary identifies one route variant. A logical route (RouteNo) may
// map to several variants (RouteID), typically one per direction.
type RouteSummary struct {
	RouteID string
	RouteNo string
}

// RouteStop is one stop of a variant's ordered sequence.
type RouteStop struct {
	NodeID        string
	NodeName      string
	NodeNo        string
	Order         float64
	Position      geo.Coordinate
	DirectionCode int
}

// VehicleSample is a single polled observation of a vehicle. NodeOrder and
// Heading are NaN when the feed omits them; NodeID and VariantID may be
// empty.
type VehicleSample struct {
	VehicleID string
	RouteNo   string
	Position  geo.Coordinate
	NodeID    string
	NodeOrder float64
	VariantID string
	Heading   float64
}
