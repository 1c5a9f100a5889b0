package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taxpoint/internal/metrics"
	"taxpoint/internal/port"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client is a reverse-geocoding client for the Nominatim API.
// It implements port.Geocoder.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient creates a Nominatim client. An empty baseURL selects the public
// endpoint. Nominatim requires a User-Agent identifying the application.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = "taxpoint/1.0"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// address is the Nominatim addressdetails component bag.
type address struct {
	County        string `json:"county"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	Hamlet        string `json:"hamlet"`
	Country       string `json:"country"`
}

type reverseResponse struct {
	Address *address `json:"address"`
}

// Reverse resolves coordinates to administrative regions. It returns
// (nil, nil) when Nominatim finds no address at the coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*port.Location, error) {
	metrics.GeocodeRequestsTotal.Inc()
	start := time.Now()

	url := fmt.Sprintf("%s/reverse?lat=%.6f&lon=%.6f&format=json&addressdetails=1", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("calling nominatim: %w", err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.GeocodeFailuresTotal.Inc()
		return nil, fmt.Errorf("decoding nominatim response: %w", err)
	}
	if body.Address == nil {
		return nil, nil
	}

	return &port.Location{
		State:   body.Address.State,
		County:  firstNonEmpty(body.Address.County, body.Address.StateDistrict, body.Address.State),
		City:    firstNonEmpty(body.Address.City, body.Address.Town, body.Address.Village, body.Address.Municipality, body.Address.Hamlet),
		Country: body.Address.Country,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
