package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taxpoint/internal/port"
)

// MockGeocoder is a mock implementation of port.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*port.Location, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Location), args.Error(1)
}

// MockGeoCache is a mock implementation of port.GeoCache.
type MockGeoCache struct {
	mock.Mock
}

func (m *MockGeoCache) Get(ctx context.Context, key string) (*port.Location, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*port.Location), args.Bool(1), args.Error(2)
}

func (m *MockGeoCache) Set(ctx context.Context, key string, loc *port.Location, ttl time.Duration) error {
	args := m.Called(ctx, key, loc, ttl)
	return args.Error(0)
}
