package ports

import (
	"context"
	"errors"

	"shipping-quoter/internal/features/geocode/domain"
)

// Provider error taxonomy. Adapters map provider-specific statuses onto
// these so the resolver can pick the right retry policy.
var (
	// ErrNotConfigured means the provider has no usable credentials.
	ErrNotConfigured = errors.New("geocoding provider not configured")
	// ErrInvalidAddress means the input is malformed; retrying cannot help.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrNoResult means the provider found nothing for the address.
	ErrNoResult = errors.New("no results for address")
	// ErrRateLimited means the provider throttled the request.
	ErrRateLimited = errors.New("geocoding rate limited")
	// ErrUnavailable covers network and transient provider failures.
	ErrUnavailable = errors.New("geocoding provider unavailable")
)

// GeocodingProvider converts a free-form address into coordinates and
// parsed components.
type GeocodingProvider interface {
	// Geocode resolves the address. Errors wrap one of the sentinels above.
	Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error)
	// Configured reports whether credentials are present and plausible.
	Configured() bool
}

// Notifier dispatches out-of-band operator alerts (circuit breaker opened).
type Notifier interface {
	Notify(ctx context.Context, subject, message string)
}
