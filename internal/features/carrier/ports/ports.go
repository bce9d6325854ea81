package ports

import (
	"context"
	"errors"

	"shipping-quoter/internal/features/carrier/domain"
)

// ErrNoRates means the provider answered but no enabled service returned a
// usable price.
var ErrNoRates = errors.New("no carrier rates available")

// RateProvider quotes carrier services for a destination postal code.
type RateProvider interface {
	// Quote returns one rate per enabled service that priced the package.
	// The destination CEP is digits only.
	Quote(ctx context.Context, destinationCEP string, pkg domain.Package) ([]domain.Rate, error)
	Configured() bool
}
