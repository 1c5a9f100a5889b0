package taxengine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/port"
	"taxpoint/internal/rates"
	"taxpoint/internal/taxengine"
	"taxpoint/internal/taxengine/local"
	"taxpoint/mocks"
)

func newLocalEngine(rows []rates.Row) (*local.Engine, *mocks.MockGeocoder) {
	geocoder := new(mocks.MockGeocoder)
	norm := rates.NewDefaultNormalizer()
	table := rates.NewTable(rows, norm)
	calc := taxengine.NewCalculator(0.04)
	return local.NewEngine(geocoder, table, norm, calc), geocoder
}

func nyRows() []rates.Row {
	return []rates.Row{
		{State: "NY", County: "Erie", City: rates.CountyLevelCity, CompositeRate: 0.0875, StateRate: 0.04, CountyRate: 0.0475},
		{State: "NY", County: "Westchester", City: "Yonkers", CompositeRate: 0.08875, StateRate: 0.04, CountyRate: 0.015, CityRate: 0.03},
	}
}

func TestLocalEngine_ResolvesCountyRate(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, 42.9, -78.8).
		Return(&port.Location{State: "New York", County: "Erie County", City: "Buffalo"}, nil)

	out, err := engine.Resolve(context.Background(), 42.9, -78.8, 100.0)

	require.NoError(t, err)
	assert.Equal(t, 0.0875, out.CompositeRate)
	assert.Equal(t, 8.75, out.TaxAmount)
	assert.Equal(t, "Erie", out.County)
	geocoder.AssertExpectations(t)
}

func TestLocalEngine_GeocoderErrorWrapsUnavailable(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := engine.Resolve(context.Background(), 42.9, -78.8, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrGeocodeUnavailable))
}

func TestLocalEngine_NoAddressIsNoMatch(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	_, err := engine.Resolve(context.Background(), 0.0, 0.0, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrNoJurisdictionMatch))
}

func TestLocalEngine_OutOfStateIsNoMatch(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(&port.Location{State: "New Jersey", County: "Bergen"}, nil)

	_, err := engine.Resolve(context.Background(), 40.9, -74.0, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrNoJurisdictionMatch))
}

func TestLocalEngine_MissingCountyIsNoMatch(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(&port.Location{State: "New York"}, nil)

	_, err := engine.Resolve(context.Background(), 42.9, -78.8, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrNoJurisdictionMatch))
}

func TestLocalEngine_EmptyTableIsUnavailable(t *testing.T) {
	engine, geocoder := newLocalEngine(nil)
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(&port.Location{State: "New York", County: "Erie"}, nil)

	_, err := engine.Resolve(context.Background(), 42.9, -78.8, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrRateTableUnavailable))
}

func TestLocalEngine_UnknownCountyIsNoMatch(t *testing.T) {
	engine, geocoder := newLocalEngine(nyRows())
	geocoder.On("Reverse", mock.Anything, mock.Anything, mock.Anything).
		Return(&port.Location{State: "New York", County: "Nowhere"}, nil)

	_, err := engine.Resolve(context.Background(), 42.9, -78.8, 100.0)
	assert.True(t, errors.Is(err, taxengine.ErrNoJurisdictionMatch))
}
