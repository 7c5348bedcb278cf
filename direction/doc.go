// Package direction infers a vehicle's travel orientation (up/down) along a
// route from static stop-sequence metadata.
//
// Municipal route data defines each route as one or more variants, each an
// ordered list of stops tagged with a direction code. BuildLookup turns that
// data into an index keyed by stop; Resolver.Resolve answers the orientation
// question for a single vehicle observation.
package direction
