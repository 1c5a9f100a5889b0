package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"taxpoint/internal/domain"
	"taxpoint/internal/port"
)

// OrderResolver resolves tax jurisdictions and rates for orders on demand.
// Resolution happens at most once per order; already resolved orders are
// returned as-is without touching the geocoder or the tax engines.
type OrderResolver interface {
	EnsureResolved(ctx context.Context, order *domain.Order) (*domain.Order, error)
	EnsureResolvedBatch(ctx context.Context, orders []domain.Order) ([]domain.Order, error)
}

type orderResolver struct {
	orderRepo   port.OrderRepository
	engine      port.TaxEngine
	concurrency int
}

// NewOrderResolver creates a new OrderResolver implementation.
func NewOrderResolver(orderRepo port.OrderRepository, engine port.TaxEngine, concurrency int) OrderResolver {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &orderResolver{
		orderRepo:   orderRepo,
		engine:      engine,
		concurrency: concurrency,
	}
}

// EnsureResolved returns the order with tax fields populated. Unresolved
// orders are run through the engine chain and persisted; the persisted
// update is conditional on the row still being unresolved, so concurrent
// callers converge on a single stored result.
func (r *orderResolver) EnsureResolved(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Resolved() {
		return order, nil
	}

	outcome, err := r.engine.Resolve(ctx, order.Latitude, order.Longitude, order.Subtotal)
	if err != nil {
		// The engine chain falls back to the default rate and does not
		// error in practice; treat an error as a hard failure anyway.
		return nil, err
	}

	updated := *order
	applyOutcome(&updated, outcome)

	ok, err := r.orderRepo.MarkResolved(ctx, &updated)
	if err != nil {
		log.Printf("orderResolver: persisting resolution for %s failed: %v", order.ID, err)
		return &updated, nil
	}
	if !ok {
		// Lost the race: another caller resolved this order first.
		// Return what is stored so all callers see the same result.
		stored, err := r.orderRepo.GetByID(ctx, order.ID)
		if err != nil {
			log.Printf("orderResolver: re-reading %s after lost race failed: %v", order.ID, err)
			return &updated, nil
		}
		return stored, nil
	}
	return &updated, nil
}

// EnsureResolvedBatch resolves every unresolved order in the slice with
// bounded concurrency. The returned slice preserves input order; already
// resolved orders pass through untouched.
func (r *orderResolver) EnsureResolvedBatch(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	out := make([]domain.Order, len(orders))
	copy(out, orders)

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i := range out {
		if out[i].Resolved() {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			resolved, err := r.EnsureResolved(ctx, &out[i])
			if err != nil {
				log.Printf("orderResolver: resolving %s failed: %v", out[i].ID, err)
				return
			}
			out[i] = *resolved
		}(i)
	}
	wg.Wait()

	return out, nil
}

// applyOutcome copies engine results onto the order.
func applyOutcome(order *domain.Order, outcome *port.TaxOutcome) {
	order.ResolutionStatus = domain.ResolutionResolved
	order.CompositeRate = &outcome.CompositeRate
	order.TaxAmount = &outcome.TaxAmount
	order.StateRate = &outcome.StateRate
	order.CountyRate = &outcome.CountyRate
	order.CityRate = &outcome.CityRate
	order.SpecialRate = &outcome.SpecialRate
	if outcome.State != "" {
		order.State = &outcome.State
	}
	if outcome.County != "" {
		order.County = &outcome.County
	}
	if outcome.City != "" {
		order.City = &outcome.City
	}
	if len(outcome.SpecialJurisdictions) > 0 {
		sj := strings.Join(outcome.SpecialJurisdictions, ", ")
		order.SpecialJurisdiction = &sj
	}
}
