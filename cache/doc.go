// Package cache provides a generic keyed store for network-sourced static
// data such as route polylines and stop sequences.
//
// A Cache bounds its size with least-recently-accessed eviction and
// deduplicates concurrent fetches: callers asking for the same key while a
// producer is in flight all share the one result, success or failure.
package cache
