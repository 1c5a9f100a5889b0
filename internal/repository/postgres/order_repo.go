package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

type orderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo creates a new PostgreSQL-backed OrderRepository.
func NewOrderRepo(db *sqlx.DB) port.OrderRepository {
	return &orderRepo{db: db}
}

const orderInsert = `INSERT INTO orders (
	id, latitude, longitude, subtotal, order_timestamp,
	resolution_status, composite_rate, tax_amount,
	state_rate, county_rate, city_rate, special_rate,
	state, county, city, special_jurisdiction,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5,
	$6, $7, $8,
	$9, $10, $11, $12,
	$13, $14, $15, $16,
	$17, $18
)`

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, orderInsert,
		order.ID, order.Latitude, order.Longitude, order.Subtotal, order.Timestamp,
		order.ResolutionStatus, order.CompositeRate, order.TaxAmount,
		order.StateRate, order.CountyRate, order.CityRate, order.SpecialRate,
		order.State, order.County, order.City, order.SpecialJurisdiction,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("orderRepo.Create: %w", err)
	}
	return nil
}

func (r *orderRepo) CreateBatch(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("orderRepo.CreateBatch begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range orders {
		o := &orders[i]
		o.CreatedAt = now
		o.UpdatedAt = now
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx, orderInsert,
			o.ID, o.Latitude, o.Longitude, o.Subtotal, o.Timestamp,
			o.ResolutionStatus, o.CompositeRate, o.TaxAmount,
			o.StateRate, o.CountyRate, o.CityRate, o.SpecialRate,
			o.State, o.County, o.City, o.SpecialJurisdiction,
			o.CreatedAt, o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("orderRepo.CreateBatch insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("orderRepo.CreateBatch commit: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderRepo.GetByID: %w", err)
	}
	return &order, nil
}

// buildFilterClause appends WHERE conditions for the set filters and returns
// the clause together with its positional arguments.
func buildFilterClause(f *domain.OrderFilters) (string, []interface{}) {
	if f == nil {
		return "", nil
	}
	var conds []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.FromDate != nil {
		add("order_timestamp >= $%d", *f.FromDate)
	}
	if f.ToDate != nil {
		add("order_timestamp <= $%d", *f.ToDate)
	}
	if f.County != nil {
		add("county ILIKE $%d", "%"+*f.County+"%")
	}
	if f.MinAmount != nil {
		add("subtotal >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("subtotal <= $%d", *f.MaxAmount)
	}
	if f.MinRate != nil {
		add("composite_rate >= $%d", *f.MinRate)
	}
	if f.MaxRate != nil {
		add("composite_rate <= $%d", *f.MaxRate)
	}
	if f.MinLat != nil {
		add("latitude >= $%d", *f.MinLat)
	}
	if f.MaxLat != nil {
		add("latitude <= $%d", *f.MaxLat)
	}
	if f.MinLon != nil {
		add("longitude >= $%d", *f.MinLon)
	}
	if f.MaxLon != nil {
		add("longitude <= $%d", *f.MaxLon)
	}
	if len(conds) == 0 {
		return "", nil
	}
	clause := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		clause += " AND " + c
	}
	return clause, args
}

func (r *orderRepo) List(ctx context.Context, filters *domain.OrderFilters, offset, limit int) ([]domain.Order, int, error) {
	clause, args := buildFilterClause(filters)

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders"+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM orders%s ORDER BY order_timestamp DESC LIMIT $%d OFFSET $%d",
		clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var orders []domain.Order
	err = r.db.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orderRepo.List: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepo) ListUnresolved(ctx context.Context, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE resolution_status = $1
		 ORDER BY created_at ASC LIMIT $2`,
		domain.ResolutionUnresolved, limit)
	if err != nil {
		return nil, fmt.Errorf("orderRepo.ListUnresolved: %w", err)
	}
	return orders, nil
}

// MarkResolved writes resolution results only if the row is still unresolved.
// It returns false when another writer resolved the order first.
func (r *orderRepo) MarkResolved(ctx context.Context, order *domain.Order) (bool, error) {
	order.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET
			resolution_status = $1, composite_rate = $2, tax_amount = $3,
			state_rate = $4, county_rate = $5, city_rate = $6, special_rate = $7,
			state = $8, county = $9, city = $10, special_jurisdiction = $11,
			updated_at = $12
		 WHERE id = $13 AND resolution_status = $14`,
		domain.ResolutionResolved, order.CompositeRate, order.TaxAmount,
		order.StateRate, order.CountyRate, order.CityRate, order.SpecialRate,
		order.State, order.County, order.City, order.SpecialJurisdiction,
		order.UpdatedAt,
		order.ID, domain.ResolutionUnresolved)
	if err != nil {
		return false, fmt.Errorf("orderRepo.MarkResolved: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("orderRepo.MarkResolved rows: %w", err)
	}
	if rows == 1 {
		order.ResolutionStatus = domain.ResolutionResolved
		return true, nil
	}
	return false, nil
}
