package local

import (
	"context"
	"fmt"

	"taxpoint/internal/port"
	"taxpoint/internal/rates"
	"taxpoint/internal/taxengine"
)

// Engine is the in-process resolution tier: reverse geocode the
// coordinates, gate on the supported state, look up the rate row, and
// calculate. It implements port.TaxEngine.
type Engine struct {
	geocoder port.Geocoder
	table    *rates.Table
	norm     *rates.Normalizer
	calc     *taxengine.Calculator
}

// NewEngine creates the in-process tax engine.
func NewEngine(geocoder port.Geocoder, table *rates.Table, norm *rates.Normalizer, calc *taxengine.Calculator) *Engine {
	return &Engine{geocoder: geocoder, table: table, norm: norm, calc: calc}
}

func (e *Engine) Resolve(ctx context.Context, lat, lon, subtotal float64) (*port.TaxOutcome, error) {
	loc, err := e.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", taxengine.ErrGeocodeUnavailable, err)
	}
	if loc == nil || loc.State == "" {
		return nil, fmt.Errorf("%w: no usable address at (%.6f, %.6f)", taxengine.ErrNoJurisdictionMatch, lat, lon)
	}
	if e.norm.NormalizeState(loc.State) != e.norm.NormalizeState(e.calc.StateCode) {
		return nil, fmt.Errorf("%w: state %q is not supported", taxengine.ErrNoJurisdictionMatch, loc.State)
	}
	if loc.County == "" {
		return nil, fmt.Errorf("%w: no county at (%.6f, %.6f)", taxengine.ErrNoJurisdictionMatch, lat, lon)
	}
	if e.table.Len() == 0 {
		return nil, taxengine.ErrRateTableUnavailable
	}

	row := e.table.Lookup(e.calc.StateCode, loc.County, loc.City)
	if row == nil {
		return nil, fmt.Errorf("%w: no rate row for county %q", taxengine.ErrNoJurisdictionMatch, loc.County)
	}
	return e.calc.Calculate(subtotal, row), nil
}
