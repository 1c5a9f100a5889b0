package port

import "context"

// TaxOutcome is the result of a composite tax computation for one order.
// All rate fields are decimal fractions (0.04 = 4%).
type TaxOutcome struct {
	CompositeRate float64 `json:"composite_rate"`
	TaxAmount     float64 `json:"tax_amount"`
	TotalAmount   float64 `json:"total_amount"`

	StateRate   float64 `json:"state_rate"`
	CountyRate  float64 `json:"county_rate"`
	CityRate    float64 `json:"city_rate"`
	SpecialRate float64 `json:"special_rate"`

	State  string `json:"state"`
	County string `json:"county,omitempty"`
	City   string `json:"city,omitempty"`

	// Jurisdictions lists the applicable taxing authorities in order
	// state, county, city, then special districts, each formatted as
	// "<name> (<rate>%)".
	Jurisdictions        []string `json:"jurisdictions"`
	SpecialJurisdictions []string `json:"special_jurisdictions"`
}

// TaxEngine computes a tax outcome for an order located by coordinates.
// Individual engines may fail; the fallback coordinator composed from them
// never does.
type TaxEngine interface {
	Resolve(ctx context.Context, lat, lon, subtotal float64) (*TaxOutcome, error)
}
