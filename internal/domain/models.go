package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a point-of-sale order located by coordinates.
// Identity, coordinates, subtotal, and timestamp are immutable once created.
// Tax fields are populated exactly once, when the order transitions from
// unresolved to resolved.
type Order struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Subtotal  float64   `db:"subtotal" json:"subtotal"`
	Timestamp time.Time `db:"order_timestamp" json:"timestamp"`

	ResolutionStatus ResolutionStatus `db:"resolution_status" json:"resolution_status"`

	CompositeRate       *float64 `db:"composite_rate" json:"composite_rate,omitempty"`
	TaxAmount           *float64 `db:"tax_amount" json:"tax_amount,omitempty"`
	StateRate           *float64 `db:"state_rate" json:"state_rate,omitempty"`
	CountyRate          *float64 `db:"county_rate" json:"county_rate,omitempty"`
	CityRate            *float64 `db:"city_rate" json:"city_rate,omitempty"`
	SpecialRate         *float64 `db:"special_rate" json:"special_rate,omitempty"`
	State               *string  `db:"state" json:"state,omitempty"`
	County              *string  `db:"county" json:"county,omitempty"`
	City                *string  `db:"city" json:"city,omitempty"`
	SpecialJurisdiction *string  `db:"special_jurisdiction" json:"special_jurisdiction,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Resolved reports whether tax has been attached to the order.
func (o *Order) Resolved() bool {
	return o.ResolutionStatus == ResolutionResolved
}

// TotalAmount is subtotal plus tax, or subtotal alone while unresolved.
func (o *Order) TotalAmount() float64 {
	if o.TaxAmount != nil {
		return o.Subtotal + *o.TaxAmount
	}
	return o.Subtotal
}

// OrderFilters holds optional predicates for order listing and export.
type OrderFilters struct {
	FromDate  *time.Time
	ToDate    *time.Time
	County    *string
	MinAmount *float64
	MaxAmount *float64
	MinRate   *float64
	MaxRate   *float64
	MinLat    *float64
	MaxLat    *float64
	MinLon    *float64
	MaxLon    *float64
}

// ImportResult summarizes a CSV import run.
type ImportResult struct {
	FileName string   `json:"file_name"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// Stats holds aggregate order figures for the dashboard.
type Stats struct {
	TotalOrders      int     `db:"total_orders" json:"total_orders"`
	ResolvedOrders   int     `db:"resolved_orders" json:"resolved_orders"`
	UnresolvedOrders int     `db:"unresolved_orders" json:"unresolved_orders"`
	SubtotalSum      float64 `db:"subtotal_sum" json:"subtotal_sum"`
	TaxSum           float64 `db:"tax_sum" json:"tax_sum"`
	AvgCompositeRate float64 `db:"avg_composite_rate" json:"avg_composite_rate"`
}
