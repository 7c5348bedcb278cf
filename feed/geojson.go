package feed

import (
	"encoding/json"
	"errors"

	"github.com/polly-transit/tracker/geo"
)

type geoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type geoJSONFeature struct {
	Type     string          `json:"type"`
	Geometry geoJSONGeometry `json:"geometry"`
}

type geoJSONDocument struct {
	Type        string           `json:"type"`
	Features    []geoJSONFeature `json:"features"`
	Geometry    *geoJSONGeometry `json:"geometry"`
	Coordinates [][]float64      `json:"coordinates"`
}

// ParseLineString extracts the first LineString from a GeoJSON document,
// accepting a bare geometry, a Feature, or a FeatureCollection. GeoJSON
// positions are [lon, lat].
func ParseLineString(data []byte) ([]geo.Coordinate, error) {
	var doc geoJSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var g *geoJSONGeometry
	switch doc.Type {
	case "FeatureCollection":
		for i := range doc.Features {
			if doc.Features[i].Geometry.Type == "LineString" {
				g = &doc.Features[i].Geometry
				break
			}
		}
	case "Feature":
		if doc.Geometry != nil && doc.Geometry.Type == "LineString" {
			g = doc.Geometry
		}
	case "LineString":
		g = &geoJSONGeometry{Type: "LineString", Coordinates: doc.Coordinates}
	}
	if g == nil {
		return nil, errors.New("no LineString geometry found")
	}

	line := make([]geo.Coordinate, 0, len(g.Coordinates))
	for _, pos := range g.Coordinates {
		if len(pos) < 2 {
			continue
		}
		line = append(line, geo.Coordinate{Lat: pos[1], Lon: pos[0]})
	}
	return line, nil
}
