package feed

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/polly-transit/tracker/config"
	"github.com/polly-transit/tracker/direction"
	"github.com/polly-transit/tracker/geo"
)

// Client fetches route and vehicle data from the bus-information API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	staticURL  string
	serviceKey string
	cityCode   string
	log        *zap.Logger
}

// NewClient creates a client for the configured feed endpoints.
func NewClient(cfg config.FeedConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		staticURL:  cfg.StaticURL,
		serviceKey: cfg.ServiceKey,
		cityCode:   cfg.CityCode,
		log:        log,
	}
}

func (c *Client) getBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) apiURL(endpoint string, extra url.Values) string {
	q := url.Values{}
	q.Set("cityCode", c.cityCode)
	q.Set("numOfRows", "2048")
	q.Set("pageNo", "1")
	q.Set("serviceKey", c.serviceKey)
	q.Set("_type", "json")
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	return c.baseURL + endpoint + "?" + q.Encode()
}

// Routes lists every route variant the city exposes.
func (c *Client) Routes(ctx context.Context) ([]RouteSummary, error) {
	data, err := c.getBytes(ctx, c.apiURL("/getRouteNoList", nil))
	if err != nil {
		return nil, fmt.Errorf("route list: %w", err)
	}
	items, err := extractItems(data)
	if err != nil {
		return nil, fmt.Errorf("route list: %w", err)
	}
	routes := make([]RouteSummary, 0, len(items))
	for _, it := range items {
		r := RouteSummary{
			RouteID: itemString(it, "routeid"),
			RouteNo: itemString(it, "routeno"),
		}
		if r.RouteID == "" || r.RouteNo == "" {
			continue
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// RouteStops returns the ordered stop sequence of a variant.
func (c *Client) RouteStops(ctx context.Context, variantID string) ([]RouteStop, error) {
	extra := url.Values{"routeId": {variantID}}
	data, err := c.getBytes(ctx, c.apiURL("/getRouteAcctoThrghSttnList", extra))
	if err != nil {
		return nil, fmt.Errorf("stops for %s: %w", variantID, err)
	}
	items, err := extractItems(data)
	if err != nil {
		return nil, fmt.Errorf("stops for %s: %w", variantID, err)
	}
	stops := make([]RouteStop, 0, len(items))
	for _, it := range items {
		stops = append(stops, RouteStop{
			NodeID:   itemString(it, "nodeid"),
			NodeName: itemString(it, "nodenm"),
			NodeNo:   itemString(it, "nodeno"),
			Order:    itemFloat(it, "nodeord"),
			Position: geo.Coordinate{
				Lat: itemFloat(it, "gpslati"),
				Lon: itemFloat(it, "gpslong"),
			},
			DirectionCode: itemInt(it, "updowncd", direction.Down),
		})
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Order < stops[j].Order })
	return stops, nil
}

// VehicleLocations returns the live vehicle positions on a variant.
func (c *Client) VehicleLocations(ctx context.Context, variantID string) ([]VehicleSample, error) {
	extra := url.Values{"routeId": {variantID}}
	data, err := c.getBytes(ctx, c.apiURL("/getRouteAcctoBusLcList", extra))
	if err != nil {
		return nil, fmt.Errorf("vehicles for %s: %w", variantID, err)
	}
	items, err := extractItems(data)
	if err != nil {
		return nil, fmt.Errorf("vehicles for %s: %w", variantID, err)
	}
	samples := make([]VehicleSample, 0, len(items))
	for _, it := range items {
		s := VehicleSample{
			VehicleID: itemString(it, "vehicleno"),
			RouteNo:   itemString(it, "routenm"),
			Position: geo.Coordinate{
				Lat: itemFloat(it, "gpslati"),
				Lon: itemFloat(it, "gpslong"),
			},
			NodeID:    itemString(it, "nodeid"),
			NodeOrder: itemFloat(it, "nodeord"),
			VariantID: variantID,
			Heading:   math.NaN(),
		}
		if s.VehicleID == "" || !s.Position.IsValid() {
			continue
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// RouteSequences fetches the stop sequences of every variant belonging to
// the logical route routeNo, in a form the direction resolver indexes.
func (c *Client) RouteSequences(ctx context.Context, routeNo string) ([]direction.RouteSequence, error) {
	routes, err := c.Routes(ctx)
	if err != nil {
		return nil, err
	}
	var sequences []direction.RouteSequence
	for _, r := range routes {
		if r.RouteNo != routeNo {
			continue
		}
		stops, err := c.RouteStops(ctx, r.RouteID)
		if err != nil {
			return nil, err
		}
		seq := direction.RouteSequence{VariantID: r.RouteID}
		for _, s := range stops {
			seq.Stops = append(seq.Stops, direction.Stop{
				NodeID:        s.NodeID,
				Order:         s.Order,
				DirectionCode: s.DirectionCode,
			})
		}
		sequences = append(sequences, seq)
	}
	return sequences, nil
}

// Polyline fetches the derived route geometry for a variant from the static
// asset host.
func (c *Client) Polyline(ctx context.Context, variantID string) ([]geo.Coordinate, error) {
	u := c.staticURL + "/polylines/" + url.PathEscape(variantID) + ".json"
	data, err := c.getBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("polyline for %s: %w", variantID, err)
	}
	line, err := ParseLineString(data)
	if err != nil {
		return nil, fmt.Errorf("polyline for %s: %w", variantID, err)
	}
	return line, nil
}
