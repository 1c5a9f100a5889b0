package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
	"taxpoint/internal/service"
	"taxpoint/mocks"
)

func unresolvedOrder() *domain.Order {
	return &domain.Order{
		ID:               uuid.New(),
		Latitude:         40.6782,
		Longitude:        -73.9442,
		Subtotal:         100.00,
		Timestamp:        time.Now().UTC(),
		ResolutionStatus: domain.ResolutionUnresolved,
	}
}

func brooklynOutcome() *port.TaxOutcome {
	return &port.TaxOutcome{
		CompositeRate:        0.08875,
		TaxAmount:            8.88,
		TotalAmount:          108.88,
		StateRate:            0.04,
		CityRate:             0.045,
		SpecialRate:          0.00375,
		State:                "New York",
		County:               "Kings County",
		City:                 "Brooklyn",
		Jurisdictions:        []string{"New York State (4.00%)", "Brooklyn City (4.50%)", "MCTD (0.38%)"},
		SpecialJurisdictions: []string{"MCTD"},
	}
}

func TestEnsureResolved_ResolvedOrderPassesThrough(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	rate := 0.08
	order := unresolvedOrder()
	order.ResolutionStatus = domain.ResolutionResolved
	order.CompositeRate = &rate

	got, err := r.EnsureResolved(context.Background(), order)

	require.NoError(t, err)
	assert.Same(t, order, got)
	engine.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkResolved", mock.Anything, mock.Anything)
}

func TestEnsureResolved_ResolvesAndPersists(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	order := unresolvedOrder()
	engine.On("Resolve", mock.Anything, order.Latitude, order.Longitude, order.Subtotal).
		Return(brooklynOutcome(), nil)
	repo.On("MarkResolved", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(true, nil)

	got, err := r.EnsureResolved(context.Background(), order)

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, got.ResolutionStatus)
	require.NotNil(t, got.CompositeRate)
	assert.Equal(t, 0.08875, *got.CompositeRate)
	require.NotNil(t, got.TaxAmount)
	assert.Equal(t, 8.88, *got.TaxAmount)
	require.NotNil(t, got.County)
	assert.Equal(t, "Kings County", *got.County)
	require.NotNil(t, got.SpecialJurisdiction)
	assert.Equal(t, "MCTD", *got.SpecialJurisdiction)
	// The input order is not mutated; resolution works on a copy.
	assert.Equal(t, domain.ResolutionUnresolved, order.ResolutionStatus)
	repo.AssertExpectations(t)
}

func TestEnsureResolved_JoinsAllSpecialJurisdictions(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	outcome := brooklynOutcome()
	outcome.SpecialJurisdictions = []string{"MCTD", "Transit District"}
	engine.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(outcome, nil)
	repo.On("MarkResolved", mock.Anything, mock.Anything).Return(true, nil)

	got, err := r.EnsureResolved(context.Background(), unresolvedOrder())

	require.NoError(t, err)
	require.NotNil(t, got.SpecialJurisdiction)
	assert.Equal(t, "MCTD, Transit District", *got.SpecialJurisdiction)
}

func TestEnsureResolved_LostRaceReturnsStoredOrder(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	order := unresolvedOrder()
	stored := *order
	stored.ResolutionStatus = domain.ResolutionResolved
	rate := 0.07
	stored.CompositeRate = &rate

	engine.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(brooklynOutcome(), nil)
	repo.On("MarkResolved", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("GetByID", mock.Anything, order.ID).Return(&stored, nil)

	got, err := r.EnsureResolved(context.Background(), order)

	require.NoError(t, err)
	require.NotNil(t, got.CompositeRate)
	assert.Equal(t, 0.07, *got.CompositeRate)
	repo.AssertExpectations(t)
}

func TestEnsureResolved_PersistFailureStillReturnsResolution(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	engine.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(brooklynOutcome(), nil)
	repo.On("MarkResolved", mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	got, err := r.EnsureResolved(context.Background(), unresolvedOrder())

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, got.ResolutionStatus)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestEnsureResolvedBatch_OnlyUnresolvedOrdersHitEngine(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 2)

	rate := 0.08
	tax := 4.0
	resolved := *unresolvedOrder()
	resolved.ResolutionStatus = domain.ResolutionResolved
	resolved.CompositeRate = &rate
	resolved.TaxAmount = &tax

	orders := []domain.Order{*unresolvedOrder(), resolved, *unresolvedOrder()}

	engine.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(brooklynOutcome(), nil)
	repo.On("MarkResolved", mock.Anything, mock.Anything).Return(true, nil)

	out, err := r.EnsureResolvedBatch(context.Background(), orders)

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, orders[0].ID, out[0].ID)
	assert.Equal(t, orders[1].ID, out[1].ID)
	assert.Equal(t, orders[2].ID, out[2].ID)
	for _, o := range out {
		assert.Equal(t, domain.ResolutionResolved, o.ResolutionStatus)
	}
	// The already resolved order keeps its stored figures untouched.
	assert.Equal(t, 0.08, *out[1].CompositeRate)
	engine.AssertNumberOfCalls(t, "Resolve", 2)
}

func TestEnsureResolvedBatch_EmptyInput(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	engine := new(mocks.MockTaxEngine)
	r := service.NewOrderResolver(repo, engine, 5)

	out, err := r.EnsureResolvedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, out)
	engine.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
