// Package feed is the data-access layer for the municipal bus-information
// API. It fetches route lists, per-variant stop sequences, and live vehicle
// locations, plus derived route polylines from the static asset host.
//
// The upstream API wraps every payload in a response/body/items envelope and
// is loose with types: numeric fields arrive as strings or numbers, and a
// single item may be an object instead of a one-element array. Parsing here
// normalizes all of that so the rest of the system sees typed records.
//
// A GTFS-RT adapter is included for agencies exposing a VehiclePositions
// feed instead; it produces the same VehicleSample records.
package feed
