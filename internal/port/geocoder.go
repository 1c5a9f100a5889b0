package port

import (
	"context"
	"time"
)

// Location is the administrative region bag produced by reverse geocoding.
// Any field may be empty; a nil Location means the geocoder found nothing
// at the coordinates.
type Location struct {
	State   string `json:"state,omitempty"`
	County  string `json:"county,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Geocoder resolves coordinates into named administrative regions.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// GeoCache stores reverse-geocoding results keyed by coordinates.
type GeoCache interface {
	Get(ctx context.Context, key string) (*Location, bool, error)
	Set(ctx context.Context, key string, loc *Location, ttl time.Duration) error
}
