package ports

import (
	"context"

	geodomain "shipping-quoter/internal/features/geocode/domain"
	"shipping-quoter/internal/features/weather/domain"
)

// Provider returns the current weather near a coordinate pair. A nil reading
// with a nil error means the provider has nothing usable; callers treat that
// as clear weather.
type Provider interface {
	Current(ctx context.Context, at geodomain.Coordinates) (*domain.Reading, error)
	Configured() bool
}
