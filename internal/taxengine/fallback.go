package taxengine

import (
	"context"
	"log"

	"taxpoint/internal/metrics"
	"taxpoint/internal/port"
)

// FallbackEngine tries tax engines in order and applies the fixed default
// outcome when every tier misses. The external tiers sit on unreliable
// network and process boundaries, so a miss at any tier falls through
// instead of propagating; Resolve always produces an outcome and never
// returns an error.
type FallbackEngine struct {
	engines []port.TaxEngine
	names   []string
	calc    *Calculator
}

// NewFallbackEngine creates a FallbackEngine from an ordered list of engines
// and their names. The calculator supplies the final default tier.
func NewFallbackEngine(engines []port.TaxEngine, names []string, calc *Calculator) *FallbackEngine {
	return &FallbackEngine{engines: engines, names: names, calc: calc}
}

func (f *FallbackEngine) Resolve(ctx context.Context, lat, lon, subtotal float64) (*port.TaxOutcome, error) {
	metrics.ResolutionsTotal.Inc()

	for i, engine := range f.engines {
		out, err := engine.Resolve(ctx, lat, lon, subtotal)
		if err == nil && out != nil {
			metrics.EngineHitsTotal.WithLabelValues(f.names[i]).Inc()
			return out, nil
		}
		metrics.EngineMissesTotal.WithLabelValues(f.names[i]).Inc()
		log.Printf("taxengine.FallbackEngine: %s missed for (%.6f, %.6f): %v", f.names[i], lat, lon, err)
	}

	metrics.DefaultFallbacksTotal.Inc()
	return f.calc.Calculate(subtotal, nil), nil
}
