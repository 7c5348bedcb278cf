package feed

import (
	"context"
	"fmt"
	"math"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// SamplesFromVehiclePositions decodes a GTFS-RT VehiclePositions feed into
// vehicle samples. Entities without a position are skipped.
func SamplesFromVehiclePositions(data []byte) ([]VehicleSample, error) {
	fm := &gtfsrtpb.FeedMessage{}
	if err := proto.Unmarshal(data, fm); err != nil {
		return nil, fmt.Errorf("failed to decode VehiclePositions feed: %w", err)
	}

	var samples []VehicleSample
	for _, e := range fm.Entity {
		vp := e.Vehicle
		if vp == nil || vp.Position == nil || vp.Position.Latitude == nil || vp.Position.Longitude == nil {
			continue
		}
		s := VehicleSample{
			NodeOrder: math.NaN(),
			Heading:   math.NaN(),
		}
		if vp.Vehicle != nil && vp.Vehicle.Id != nil {
			s.VehicleID = *vp.Vehicle.Id
		} else if e.Id != nil {
			s.VehicleID = *e.Id
		}
		s.Position.Lat = float64(*vp.Position.Latitude)
		s.Position.Lon = float64(*vp.Position.Longitude)
		if vp.Position.Bearing != nil {
			s.Heading = float64(*vp.Position.Bearing)
		}
		if vp.Trip != nil {
			if vp.Trip.RouteId != nil {
				s.RouteNo = *vp.Trip.RouteId
			}
			if vp.Trip.TripId != nil {
				s.VariantID = *vp.Trip.TripId
			}
		}
		if vp.StopId != nil {
			s.NodeID = *vp.StopId
		}
		if vp.CurrentStopSequence != nil {
			s.NodeOrder = float64(*vp.CurrentStopSequence)
		}
		if s.VehicleID == "" || !s.Position.IsValid() {
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// RTClient polls a GTFS-RT VehiclePositions endpoint and yields the same
// sample records as the JSON API client.
type RTClient struct {
	client *Client
	url    string
}

// NewRTClient wraps an existing Client's HTTP transport for a GTFS-RT feed.
func NewRTClient(client *Client, feedURL string) *RTClient {
	return &RTClient{client: client, url: feedURL}
}

// VehicleSamples fetches and decodes the current feed contents.
func (c *RTClient) VehicleSamples(ctx context.Context) ([]VehicleSample, error) {
	if c.url == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	data, err := c.client.getBytes(ctx, c.url)
	if err != nil {
		return nil, err
	}
	return SamplesFromVehiclePositions(data)
}
