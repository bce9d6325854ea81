package ports

import (
	"context"
	"errors"

	"shipping-quoter/internal/features/geocode/domain"
)

// ErrNoRoute means the provider could not produce a route between the pair.
var ErrNoRoute = errors.New("no route found")

// RouteResult is a travel distance and duration along a real route.
type RouteResult struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

// RouteProvider returns travel distance and duration between two points.
type RouteProvider interface {
	// RouteDistance performs a single routing query, no retries. Failures
	// are absorbed by the caller's haversine fallback.
	RouteDistance(ctx context.Context, origin, destination domain.Coordinates) (*RouteResult, error)
	// Configured reports whether the provider can be called at all.
	Configured() bool
}
