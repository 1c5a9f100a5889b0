package handler

import (
	"time"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// CreateOrderRequest represents the create order request body.
// Latitude and longitude are pointers so that zero, a valid coordinate,
// still satisfies the required binding; range checks live in the service.
type CreateOrderRequest struct {
	Latitude  *float64   `json:"latitude" binding:"required" example:"40.7580"`
	Longitude *float64   `json:"longitude" binding:"required" example:"-73.9855"`
	Subtotal  float64    `json:"subtotal" example:"100.00"`
	Timestamp *time.Time `json:"timestamp" example:"2026-01-15T10:30:00Z"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
