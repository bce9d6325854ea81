package ports

import (
	"context"

	carrierdomain "shipping-quoter/internal/features/carrier/domain"
	carrierservice "shipping-quoter/internal/features/carrier/service"
	distservice "shipping-quoter/internal/features/distance/service"
	geodomain "shipping-quoter/internal/features/geocode/domain"
	pricingdomain "shipping-quoter/internal/features/pricing/domain"
)

// AddressResolver turns a free-form address into coordinates.
type AddressResolver interface {
	Resolve(ctx context.Context, address string) (*geodomain.GeocodeResult, error)
}

// DistanceEstimator measures the travel distance between two points.
type DistanceEstimator interface {
	Estimate(ctx context.Context, origin, destination geodomain.Coordinates) distservice.Result
}

// PriceModifier computes the dynamic multiplier for a local delivery.
type PriceModifier interface {
	Evaluate(ctx context.Context, destination geodomain.Coordinates) pricingdomain.Multiplier
}

// CarrierQuoter produces carrier rates for a destination, empty when none
// are available.
type CarrierQuoter interface {
	Quote(ctx context.Context, dest carrierservice.Destination, pkg carrierdomain.Package) []carrierdomain.Rate
}
