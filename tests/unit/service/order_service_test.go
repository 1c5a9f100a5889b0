package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/domain"
	"taxpoint/internal/service"
	"taxpoint/mocks"
)

// stubResolver satisfies service.OrderResolver with settable behavior.
type stubResolver struct {
	resolveFn    func(ctx context.Context, order *domain.Order) (*domain.Order, error)
	batchFn      func(ctx context.Context, orders []domain.Order) ([]domain.Order, error)
	resolveCalls int
	batchCalls   int
}

func (r *stubResolver) EnsureResolved(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.resolveCalls++
	if r.resolveFn != nil {
		return r.resolveFn(ctx, order)
	}
	return order, nil
}

func (r *stubResolver) EnsureResolvedBatch(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	r.batchCalls++
	if r.batchFn != nil {
		return r.batchFn(ctx, orders)
	}
	return orders, nil
}

func TestCreate_RejectsInvalidCoordinates(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	svc := service.NewOrderService(repo, &stubResolver{})

	cases := []struct{ lat, lon float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.lat, tc.lon, 10, time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsNegativeSubtotal(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	svc := service.NewOrderService(repo, &stubResolver{})

	_, err := svc.Create(context.Background(), 40.7, -74.0, -0.01, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidSubtotal)
}

func TestCreate_PersistsUnresolvedThenResolves(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	resolver := &stubResolver{
		resolveFn: func(_ context.Context, o *domain.Order) (*domain.Order, error) {
			resolved := *o
			resolved.ResolutionStatus = domain.ResolutionResolved
			return &resolved, nil
		},
	}
	svc := service.NewOrderService(repo, resolver)

	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.ResolutionStatus == domain.ResolutionUnresolved &&
			o.Latitude == 40.6782 && o.Subtotal == 100 && o.Timestamp.Equal(ts)
	})).Return(nil)

	order, err := svc.Create(context.Background(), 40.6782, -73.9442, 100, ts)

	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionResolved, order.ResolutionStatus)
	assert.Equal(t, 1, resolver.resolveCalls)
	repo.AssertExpectations(t)
}

func TestCreate_ZeroTimestampDefaultsToNow(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	svc := service.NewOrderService(repo, &stubResolver{})

	var captured *domain.Order
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.Order) }).
		Return(nil)

	_, err := svc.Create(context.Background(), 42.0, -76.0, 25, time.Time{})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.WithinDuration(t, time.Now().UTC(), captured.Timestamp, 5*time.Second)
}

func TestGetByID_ResolvesFetchedOrder(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	resolver := &stubResolver{}
	svc := service.NewOrderService(repo, resolver)

	id := uuid.New()
	stored := &domain.Order{ID: id, ResolutionStatus: domain.ResolutionUnresolved}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil)

	order, err := svc.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, 1, resolver.resolveCalls)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	resolver := &stubResolver{}
	svc := service.NewOrderService(repo, resolver)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, resolver.resolveCalls)
}

func TestList_ResolvesBatch(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	resolver := &stubResolver{}
	svc := service.NewOrderService(repo, resolver)

	stored := []domain.Order{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("List", mock.Anything, (*domain.OrderFilters)(nil), 0, 20).Return(stored, 42, nil)

	orders, total, err := svc.List(context.Background(), nil, 0, 20)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 42, total)
	assert.Equal(t, 1, resolver.batchCalls)
}

func TestListAll_PagesThroughEverything(t *testing.T) {
	repo := new(mocks.MockOrderRepo)
	resolver := &stubResolver{}
	svc := service.NewOrderService(repo, resolver)

	page1 := make([]domain.Order, 500)
	page2 := make([]domain.Order, 120)
	repo.On("List", mock.Anything, (*domain.OrderFilters)(nil), 0, 500).Return(page1, 620, nil)
	repo.On("List", mock.Anything, (*domain.OrderFilters)(nil), 500, 500).Return(page2, 620, nil)

	all, err := svc.ListAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, all, 620)
	repo.AssertExpectations(t)
}
