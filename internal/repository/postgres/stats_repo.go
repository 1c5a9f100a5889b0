package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const orderStatsQuery = `SELECT
	COUNT(*) AS total_orders,
	COUNT(CASE WHEN resolution_status = 'resolved' THEN 1 END) AS resolved_orders,
	COUNT(CASE WHEN resolution_status = 'unresolved' THEN 1 END) AS unresolved_orders,
	COALESCE(SUM(subtotal), 0) AS subtotal_sum,
	COALESCE(SUM(tax_amount), 0) AS tax_sum,
	COALESCE(AVG(composite_rate), 0) AS avg_composite_rate
FROM orders`

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.db.GetContext(ctx, &stats, orderStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats: %w", err)
	}
	return &stats, nil
}
