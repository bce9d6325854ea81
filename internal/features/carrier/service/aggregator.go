package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/features/carrier/domain"
	"shipping-quoter/internal/features/carrier/ports"

	"go.uber.org/zap"
)

const rateCacheNamespace = "rate"

// Destination is where a carrier quote ships to. State feeds the contingency
// table when the live API cannot price the CEP.
type Destination struct {
	CEP   string
	State string
}

// Aggregator produces carrier rates for a destination: live API first,
// static regional table as contingency. Live rates are cached pre-margin so
// a margin change applies to cached quotes immediately.
type Aggregator struct {
	cfg         config.CorreiosConfig
	originCEP   string
	provider    ports.RateProvider
	contingency domain.ContingencyTable
	cache       cache.Cache
	logger      *zap.Logger
	cacheTTL    time.Duration
}

// NewAggregator creates an Aggregator. The provider may be nil when no
// contract credentials exist; contingency still serves quotes. A malformed
// contingency override falls back to the default table rather than failing.
func NewAggregator(cfg config.CorreiosConfig, originCEP string, provider ports.RateProvider, c cache.Cache) *Aggregator {
	contingency, err := domain.LoadContingencyTable(cfg.ContingencyJSON)
	if err != nil {
		logger.Get().Warn("Invalid contingency rate override, using defaults", zap.Error(err))
		contingency = domain.DefaultContingencyTable()
	}

	return &Aggregator{
		cfg:         cfg,
		originCEP:   domain.SanitizeCEP(originCEP),
		provider:    provider,
		contingency: contingency,
		cache:       c,
		logger:      logger.Get(),
		cacheTTL:    time.Duration(cfg.RateCacheTTLSeconds) * time.Second,
	}
}

// Quote returns the carrier rates for a package, sorted cheapest first. A nil
// slice means carrier shipping is not offered for this request; quoting never
// returns an error because a missing carrier offer must not block checkout.
func (a *Aggregator) Quote(ctx context.Context, dest Destination, pkg domain.Package) []domain.Rate {
	if !a.cfg.Enabled {
		return nil
	}

	cep := domain.SanitizeCEP(dest.CEP)
	if len(cep) != 8 {
		a.logger.Warn("Invalid destination CEP for carrier quote", zap.String("cep", dest.CEP))
		return nil
	}

	pkg = pkg.Normalize()
	if pkg.WeightKg > domain.MaxWeightKg {
		a.logger.Warn("Package exceeds carrier weight limit",
			zap.Float64("weight_kg", pkg.WeightKg),
		)
		return nil
	}

	key := a.rateCacheKey(cep, pkg)

	if a.cache != nil {
		var cached []domain.Rate
		if err := cache.GetJSON(ctx, a.cache, key, &cached); err == nil && len(cached) > 0 {
			return a.finish(cached)
		}
	}

	if a.provider != nil && a.provider.Configured() {
		rates, err := a.provider.Quote(ctx, cep, pkg)
		if err == nil && len(rates) > 0 {
			if a.cache != nil {
				if cacheErr := cache.SetJSON(ctx, a.cache, key, rates, a.cacheTTL); cacheErr != nil {
					a.logger.Warn("Rate cache write failed", zap.Error(cacheErr))
				}
			}
			return a.finish(rates)
		}
		a.logger.Warn("Live carrier quote failed, evaluating contingency",
			zap.String("cep", cep),
			zap.Error(err),
		)
	}

	if !a.cfg.ContingencyEnabled {
		return nil
	}

	rates := a.contingency.Build(dest.State, pkg.WeightKg, a.cfg.ServiceCodes())
	if len(rates) == 0 {
		return nil
	}

	a.logger.Info("Serving contingency carrier rates",
		zap.String("state", dest.State),
	)
	return a.finish(rates)
}

// finish applies the profit margin and sorts the rates cheapest first.
// Contingency rates pass through here too: margin applies uniformly.
func (a *Aggregator) finish(rates []domain.Rate) []domain.Rate {
	out := make([]domain.Rate, len(rates))
	copy(out, rates)

	if a.cfg.ProfitMarginPercent > 0 {
		multiplier := 1 + a.cfg.ProfitMarginPercent/100
		for i := range out {
			out[i].Cost = math.Round(out[i].Cost*multiplier*100) / 100
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost < out[j].Cost
	})
	return out
}

func (a *Aggregator) rateCacheKey(cep string, pkg domain.Package) string {
	return cache.Key(rateCacheNamespace,
		a.originCEP,
		cep,
		fmt.Sprintf("%.1f", pkg.WeightKg),
		fmt.Sprintf("%dx%dx%d", int(pkg.HeightCm), int(pkg.WidthCm), int(pkg.LengthCm)),
		a.cfg.Services,
	)
}
