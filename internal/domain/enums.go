package domain

// ResolutionStatus represents the tax resolution lifecycle of an order.
// An order starts unresolved and transitions to resolved exactly once;
// it never transitions backward.
type ResolutionStatus string

const (
	ResolutionUnresolved ResolutionStatus = "unresolved"
	ResolutionResolved   ResolutionStatus = "resolved"
)
