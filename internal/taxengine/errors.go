package taxengine

import "errors"

// Engine failure taxonomy. Every one of these degrades to the next fallback
// tier; none is surfaced to callers of the fallback coordinator.
var (
	// ErrGeocodeUnavailable marks a network, timeout, or parse failure from
	// the reverse geocoder.
	ErrGeocodeUnavailable = errors.New("reverse geocoding unavailable")
	// ErrNoJurisdictionMatch marks a successful geocode with no matching
	// rate table row (including out-of-state coordinates).
	ErrNoJurisdictionMatch = errors.New("no jurisdiction match")
	// ErrEngineMiss marks a process, timeout, or parse failure from the
	// alternate engine.
	ErrEngineMiss = errors.New("alternate engine miss")
	// ErrRateTableUnavailable marks an empty rate table (dataset missing or
	// corrupt at load time).
	ErrRateTableUnavailable = errors.New("rate table unavailable")
)
