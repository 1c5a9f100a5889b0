package taxengine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/port"
)

type stubEngine struct {
	mock.Mock
}

func (s *stubEngine) Resolve(ctx context.Context, lat, lon, subtotal float64) (*port.TaxOutcome, error) {
	args := s.Called(ctx, lat, lon, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TaxOutcome), args.Error(1)
}

func TestFallbackEngine_FirstTierHit(t *testing.T) {
	first := new(stubEngine)
	second := new(stubEngine)
	calc := NewCalculator(0.04)

	expected := &port.TaxOutcome{CompositeRate: 0.0875, TaxAmount: 8.75, TotalAmount: 108.75}
	first.On("Resolve", mock.Anything, 42.9, -78.8, 100.0).Return(expected, nil)

	f := NewFallbackEngine([]port.TaxEngine{first, second}, []string{"remote", "local"}, calc)
	out, err := f.Resolve(context.Background(), 42.9, -78.8, 100.0)

	require.NoError(t, err)
	assert.Equal(t, expected, out)
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFallbackEngine_FallsThroughToNextTier(t *testing.T) {
	first := new(stubEngine)
	second := new(stubEngine)
	calc := NewCalculator(0.04)

	expected := &port.TaxOutcome{CompositeRate: 0.08, TaxAmount: 8.0, TotalAmount: 108.0}
	first.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ErrEngineMiss)
	second.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(expected, nil)

	f := NewFallbackEngine([]port.TaxEngine{first, second}, []string{"remote", "local"}, calc)
	out, err := f.Resolve(context.Background(), 40.7, -74.0, 100.0)

	require.NoError(t, err)
	assert.Equal(t, expected, out)
}

func TestFallbackEngine_AllMissesYieldDefault(t *testing.T) {
	first := new(stubEngine)
	second := new(stubEngine)
	calc := NewCalculator(0.04)

	first.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, ErrEngineMiss)
	second.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("geocoder down"))

	f := NewFallbackEngine([]port.TaxEngine{first, second}, []string{"remote", "local"}, calc)
	out, err := f.Resolve(context.Background(), 40.7, -74.0, 100.0)

	require.NoError(t, err)
	assert.Equal(t, 0.04, out.CompositeRate)
	assert.Equal(t, 4.00, out.TaxAmount)
	assert.Equal(t, 104.00, out.TotalAmount)
}

func TestFallbackEngine_NoTiersStillProducesDefault(t *testing.T) {
	calc := NewCalculator(0.04)
	f := NewFallbackEngine(nil, nil, calc)

	out, err := f.Resolve(context.Background(), 0, 0, 25.0)

	require.NoError(t, err)
	assert.Equal(t, 1.00, out.TaxAmount)
}
