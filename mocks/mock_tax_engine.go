package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxpoint/internal/port"
)

// MockTaxEngine is a mock implementation of port.TaxEngine.
type MockTaxEngine struct {
	mock.Mock
}

func (m *MockTaxEngine) Resolve(ctx context.Context, lat, lon, subtotal float64) (*port.TaxOutcome, error) {
	args := m.Called(ctx, lat, lon, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TaxOutcome), args.Error(1)
}
