package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCoordinates = errors.New("latitude or longitude out of range")
	ErrInvalidSubtotal    = errors.New("subtotal must be non-negative")
	ErrMissingCSVColumns  = errors.New("csv must contain latitude, longitude, and subtotal columns")
	ErrEmptyImport        = errors.New("csv contains no importable rows")
)
