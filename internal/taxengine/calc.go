package taxengine

import (
	"fmt"
	"math"

	"taxpoint/internal/port"
	"taxpoint/internal/rates"
)

// Calculator turns a resolved rate row and a subtotal into a TaxOutcome.
// With no row it applies the fixed default: a single state-only rate with
// no county, city, or special components.
type Calculator struct {
	// DefaultRate is the state-only rate applied when no rate row matched.
	DefaultRate float64
	// StateCode is the supported state's postal code, e.g. "NY".
	StateCode string
	// StateLabel is the human-readable state jurisdiction name.
	StateLabel string
}

// NewCalculator creates a Calculator for New York with the given default
// state-only rate.
func NewCalculator(defaultRate float64) *Calculator {
	return &Calculator{
		DefaultRate: defaultRate,
		StateCode:   "NY",
		StateLabel:  "New York State",
	}
}

// Components carries the jurisdiction names and component rates a tax
// outcome is assembled from, independent of where they were resolved.
type Components struct {
	State         string
	County        string
	City          string
	SpecialRates  []rates.SpecialRate
	StateRate     float64
	CountyRate    float64
	CityRate      float64
	CompositeRate float64
}

// Calculate computes the tax outcome for a subtotal against a rate row.
// A nil row yields the fixed default outcome.
func (c *Calculator) Calculate(subtotal float64, row *rates.Row) *port.TaxOutcome {
	if row == nil {
		return c.FromComponents(subtotal, Components{
			State:         c.StateCode,
			StateRate:     c.DefaultRate,
			CompositeRate: c.DefaultRate,
		})
	}

	comp := Components{
		State:         row.State,
		County:        row.County,
		SpecialRates:  row.SpecialRates,
		StateRate:     row.StateRate,
		CountyRate:    row.CountyRate,
		CityRate:      row.CityRate,
		CompositeRate: row.CompositeRate,
	}
	if row.HasCity() {
		comp.City = row.City
	}
	return c.FromComponents(subtotal, comp)
}

// FromComponents assembles a TaxOutcome from explicit jurisdiction
// components, applying the rounding and label formatting rules shared by
// every resolution path.
func (c *Calculator) FromComponents(subtotal float64, comp Components) *port.TaxOutcome {
	taxAmount := Round2(subtotal * comp.CompositeRate)

	var specialSum float64
	specialLabels := make([]string, 0, len(comp.SpecialRates))
	for _, sr := range comp.SpecialRates {
		specialSum += sr.Rate
		specialLabels = append(specialLabels, fmt.Sprintf("%s (%s)", sr.Name, FormatPercent(sr.Rate)))
	}

	var jurisdictions []string
	if comp.StateRate > 0 {
		jurisdictions = append(jurisdictions, fmt.Sprintf("%s (%s)", c.StateLabel, FormatPercent(comp.StateRate)))
	}
	if comp.CountyRate > 0 && comp.County != "" {
		jurisdictions = append(jurisdictions, fmt.Sprintf("%s County (%s)", comp.County, FormatPercent(comp.CountyRate)))
	}
	if comp.CityRate > 0 && comp.City != "" {
		jurisdictions = append(jurisdictions, fmt.Sprintf("%s City (%s)", comp.City, FormatPercent(comp.CityRate)))
	}
	jurisdictions = append(jurisdictions, specialLabels...)

	return &port.TaxOutcome{
		CompositeRate:        comp.CompositeRate,
		TaxAmount:            taxAmount,
		TotalAmount:          subtotal + taxAmount,
		StateRate:            comp.StateRate,
		CountyRate:           comp.CountyRate,
		CityRate:             comp.CityRate,
		SpecialRate:          specialSum,
		State:                comp.State,
		County:               comp.County,
		City:                 comp.City,
		Jurisdictions:        jurisdictions,
		SpecialJurisdictions: specialLabels,
	}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatPercent renders a decimal fraction as a percentage, e.g. 0.04 ->
// "4.00%".
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
