package cached

import (
	"context"
	"fmt"
	"log"
	"time"

	"taxpoint/internal/metrics"
	"taxpoint/internal/port"
)

// Geocoder wraps another geocoder with a read-through cache keyed by
// rounded coordinates. Cache failures degrade to the inner geocoder.
type Geocoder struct {
	inner port.Geocoder
	cache port.GeoCache
	ttl   time.Duration
}

func NewGeocoder(inner port.Geocoder, cache port.GeoCache, ttl time.Duration) *Geocoder {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Geocoder{inner: inner, cache: cache, ttl: ttl}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geo:%.6f,%.6f", lat, lon)
}

func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*port.Location, error) {
	key := cacheKey(lat, lon)

	loc, found, err := g.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[GEOCACHE] get failed for %s: %v", key, err)
	} else if found {
		metrics.GeoCacheHitsTotal.Inc()
		return loc, nil
	}
	metrics.GeoCacheMissesTotal.Inc()

	loc, err = g.inner.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		if err := g.cache.Set(ctx, key, loc, g.ttl); err != nil {
			log.Printf("[GEOCACHE] set failed for %s: %v", key, err)
		}
	}
	return loc, nil
}
