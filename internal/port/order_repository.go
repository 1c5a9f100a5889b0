package port

import (
	"context"

	"github.com/google/uuid"

	"taxpoint/internal/domain"
)

// OrderRepository defines the contract for order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateBatch(ctx context.Context, orders []domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, filters *domain.OrderFilters, offset, limit int) ([]domain.Order, int, error)
	ListUnresolved(ctx context.Context, limit int) ([]domain.Order, error)
	// MarkResolved persists the resolved tax fields of the order. The update
	// is conditional on the stored row still being unresolved; it returns
	// false when another caller won the transition.
	MarkResolved(ctx context.Context, order *domain.Order) (bool, error)
}

// StatsRepository defines the contract for aggregate order statistics.
type StatsRepository interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
}
