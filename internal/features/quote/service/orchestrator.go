package service

import (
	"context"
	"fmt"
	"math"

	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	carrierdomain "shipping-quoter/internal/features/carrier/domain"
	carrierservice "shipping-quoter/internal/features/carrier/service"
	geodomain "shipping-quoter/internal/features/geocode/domain"
	pricingdomain "shipping-quoter/internal/features/pricing/domain"
	"shipping-quoter/internal/features/quote/domain"
	"shipping-quoter/internal/features/quote/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator assembles the final offer list for one quote request. It is a
// straight-line pipeline: resolve, measure, match, price, aggregate. All
// retries and fallbacks live in the leaf components; the orchestrator only
// decides which offer categories apply.
type Orchestrator struct {
	store    config.StoreConfig
	tiers    pricingdomain.TierTable
	resolver ports.AddressResolver
	distance ports.DistanceEstimator
	modifier ports.PriceModifier
	carrier  ports.CarrierQuoter
	logger   *zap.Logger
}

// NewOrchestrator creates an Orchestrator. Resolver, modifier and carrier may
// be nil; the corresponding paths are skipped.
func NewOrchestrator(
	store config.StoreConfig,
	tiers pricingdomain.TierTable,
	resolver ports.AddressResolver,
	distance ports.DistanceEstimator,
	modifier ports.PriceModifier,
	carrier ports.CarrierQuoter,
) *Orchestrator {
	return &Orchestrator{
		store:    store,
		tiers:    tiers,
		resolver: resolver,
		distance: distance,
		modifier: modifier,
		carrier:  carrier,
		logger:   logger.Get(),
	}
}

// Quote evaluates one request. The result is never an error: missing
// configuration or failed resolution narrow the offer list, possibly to
// empty, but checkout must keep moving.
func (o *Orchestrator) Quote(ctx context.Context, req domain.Request) domain.Quote {
	quote := domain.Quote{
		RequestID: uuid.NewString(),
		Offers:    []domain.Offer{},
	}

	if !o.store.HasOrigin() {
		o.logger.Error("Store origin coordinates not configured, no offers possible")
		return quote
	}

	origin := geodomain.Coordinates{
		Latitude:  o.store.Latitude,
		Longitude: o.store.Longitude,
	}

	// Carrier quoting only needs the postal code, so it runs concurrently
	// with resolution. In exclusive mode the carrier call is deferred until
	// the local outcome is known to avoid a pointless API hit.
	var carrierCh <-chan []carrierdomain.Rate
	if !o.store.LocalExclusive {
		carrierCh = o.startCarrierPath(ctx, req)
	}

	local := o.localOffer(ctx, origin, req)
	if local != nil {
		quote.Offers = append(quote.Offers, *local)
	}

	if o.store.LocalExclusive && local == nil {
		carrierCh = o.startCarrierPath(ctx, req)
	}

	if carrierCh != nil && !(o.store.LocalExclusive && local != nil) {
		for _, rate := range <-carrierCh {
			quote.Offers = append(quote.Offers, carrierOffer(rate))
		}
	}

	return quote
}

// startCarrierPath launches the carrier aggregation concurrently and returns
// the channel its rates arrive on, nil when the path cannot run.
func (o *Orchestrator) startCarrierPath(ctx context.Context, req domain.Request) <-chan []carrierdomain.Rate {
	if o.carrier == nil {
		return nil
	}

	ch := make(chan []carrierdomain.Rate, 1)
	go func() {
		ch <- o.carrier.Quote(ctx, carrierservice.Destination{
			CEP:   req.Address.PostalCode,
			State: req.Address.State,
		}, req.EffectivePackage())
	}()
	return ch
}

// localOffer runs resolve, distance, tier match and dynamic pricing. Nil
// means no local delivery for this request.
func (o *Orchestrator) localOffer(ctx context.Context, origin geodomain.Coordinates, req domain.Request) *domain.Offer {
	destination, resolved := o.resolveDestination(ctx, req)
	if !resolved {
		return nil
	}

	result := o.distance.Estimate(ctx, origin, destination)
	distanceKm := result.Km()

	tier := o.tiers.Match(distanceKm)
	if tier == nil {
		o.logger.Info("Destination outside local delivery range",
			zap.Float64("distance_km", distanceKm),
			zap.String("method", string(result.Method)),
		)
		return nil
	}

	multiplier := pricingdomain.Neutral()
	if o.modifier != nil {
		multiplier = o.modifier.Evaluate(ctx, destination)
	}

	cost := math.Round(tier.Price*multiplier.Total*100) / 100

	metadata := map[string]string{
		"distance_km": fmt.Sprintf("%.2f", distanceKm),
		"method":      string(result.Method),
		"tier":        tier.Label,
		"base_price":  fmt.Sprintf("%.2f", tier.Price),
	}
	if multiplier.Total != 1.0 {
		metadata["multiplier"] = fmt.Sprintf("%.2f", multiplier.Total)
		for _, component := range multiplier.Components {
			metadata["multiplier_"+component.Reason] = fmt.Sprintf("%.2f", component.Factor)
		}
	}

	return &domain.Offer{
		ID:       "local_delivery",
		Kind:     domain.KindLocal,
		Label:    o.store.LocalTitle,
		Cost:     cost,
		Metadata: metadata,
	}
}

// resolveDestination prefers session-provided coordinates, then geocoding.
func (o *Orchestrator) resolveDestination(ctx context.Context, req domain.Request) (geodomain.Coordinates, bool) {
	if req.Coordinates != nil && !req.Coordinates.IsZero() {
		return *req.Coordinates, true
	}

	if o.resolver == nil {
		return geodomain.Coordinates{}, false
	}

	address := req.Address.SingleLine()
	result, err := o.resolver.Resolve(ctx, address)
	if err != nil {
		o.logger.Warn("Destination resolution failed, skipping local offer",
			zap.String("address", address),
			zap.Error(err),
		)
		return geodomain.Coordinates{}, false
	}

	if result.IsFallback {
		o.logger.Info("Using fallback coordinates for local offer",
			zap.String("address", address),
		)
	}
	return result.Coordinates, true
}

func carrierOffer(rate carrierdomain.Rate) domain.Offer {
	return domain.Offer{
		ID:           rate.ID,
		Kind:         domain.KindCarrier,
		Label:        rate.Label,
		Cost:         rate.Cost,
		DeadlineDays: rate.DeadlineDays,
		Metadata: map[string]string{
			"service_code": rate.ServiceCode,
		},
	}
}
