package geocode_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/geocode/cached"
	"taxpoint/internal/port"
	"taxpoint/mocks"
)

func TestCachedGeocoder_HitSkipsInner(t *testing.T) {
	inner := new(mocks.MockGeocoder)
	cache := new(mocks.MockGeoCache)

	want := &port.Location{State: "New York", County: "Erie County", City: "Buffalo"}
	cache.On("Get", mock.Anything, "geo:42.886400,-78.878400").Return(want, true, nil)

	g := cached.NewGeocoder(inner, cache, time.Hour)
	loc, err := g.Reverse(context.Background(), 42.8864, -78.8784)

	require.NoError(t, err)
	assert.Equal(t, want, loc)
	inner.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedGeocoder_MissPopulatesCache(t *testing.T) {
	inner := new(mocks.MockGeocoder)
	cache := new(mocks.MockGeoCache)

	want := &port.Location{State: "New York", County: "Kings County"}
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	inner.On("Reverse", mock.Anything, 40.6782, -73.9442).Return(want, nil)
	cache.On("Set", mock.Anything, "geo:40.678200,-73.944200", want, time.Hour).Return(nil)

	g := cached.NewGeocoder(inner, cache, time.Hour)
	loc, err := g.Reverse(context.Background(), 40.6782, -73.9442)

	require.NoError(t, err)
	assert.Equal(t, want, loc)
	cache.AssertExpectations(t)
}

func TestCachedGeocoder_CacheErrorDegradesToInner(t *testing.T) {
	inner := new(mocks.MockGeocoder)
	cache := new(mocks.MockGeoCache)

	want := &port.Location{State: "New York", County: "Monroe County"}
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down"))
	inner.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(want, nil)
	cache.On("Set", mock.Anything, mock.Anything, want, mock.Anything).Return(errors.New("redis down"))

	g := cached.NewGeocoder(inner, cache, time.Hour)
	loc, err := g.Reverse(context.Background(), 43.16, -77.61)

	require.NoError(t, err)
	assert.Equal(t, want, loc)
}

func TestCachedGeocoder_NilResultNotCached(t *testing.T) {
	inner := new(mocks.MockGeocoder)
	cache := new(mocks.MockGeoCache)

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	inner.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	g := cached.NewGeocoder(inner, cache, time.Hour)
	loc, err := g.Reverse(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Nil(t, loc)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedGeocoder_InnerErrorPropagates(t *testing.T) {
	inner := new(mocks.MockGeocoder)
	cache := new(mocks.MockGeoCache)

	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	inner.On("Reverse", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	g := cached.NewGeocoder(inner, cache, time.Hour)
	_, err := g.Reverse(context.Background(), 40.7, -74.0)
	assert.Error(t, err)
}
