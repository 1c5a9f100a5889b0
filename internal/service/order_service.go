package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

// OrderService manages order intake, lookup and listing.
type OrderService interface {
	Create(ctx context.Context, lat, lon, subtotal float64, timestamp time.Time) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filters *domain.OrderFilters, offset, limit int) ([]domain.Order, int, error)
	ListAll(ctx context.Context, filters *domain.OrderFilters) ([]domain.Order, error)
}

type orderService struct {
	orderRepo port.OrderRepository
	resolver  OrderResolver
}

// NewOrderService creates a new OrderService implementation.
func NewOrderService(orderRepo port.OrderRepository, resolver OrderResolver) OrderService {
	return &orderService{orderRepo: orderRepo, resolver: resolver}
}

// Create validates and persists a new order, then resolves its tax rates.
func (s *orderService) Create(ctx context.Context, lat, lon, subtotal float64, timestamp time.Time) (*domain.Order, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, domain.ErrInvalidCoordinates
	}
	if subtotal < 0 {
		return nil, domain.ErrInvalidSubtotal
	}
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	order := &domain.Order{
		ID:               uuid.New(),
		Latitude:         lat,
		Longitude:        lon,
		Subtotal:         subtotal,
		Timestamp:        timestamp,
		ResolutionStatus: domain.ResolutionUnresolved,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return s.resolver.EnsureResolved(ctx, order)
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolver.EnsureResolved(ctx, order)
}

func (s *orderService) List(ctx context.Context, filters *domain.OrderFilters, offset, limit int) ([]domain.Order, int, error) {
	orders, total, err := s.orderRepo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	resolved, err := s.resolver.EnsureResolvedBatch(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return resolved, total, nil
}

// ListAll pages through every matching order, resolving as it goes. Used by
// the export endpoints.
func (s *orderService) ListAll(ctx context.Context, filters *domain.OrderFilters) ([]domain.Order, error) {
	const pageSize = 500
	var all []domain.Order
	for offset := 0; ; offset += pageSize {
		page, total, err := s.List(ctx, filters, offset, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if offset+pageSize >= total || len(page) == 0 {
			break
		}
	}
	return all, nil
}
