package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/features/distance/ports"
	"shipping-quoter/internal/features/geocode/domain"

	"go.uber.org/zap"
)

// Method identifies how a distance was obtained.
type Method string

const (
	// MethodRoute means the distance came from the routing provider.
	MethodRoute Method = "ROUTE"
	// MethodHaversine means the distance is a great-circle approximation.
	MethodHaversine Method = "HAVERSINE"
)

const (
	earthRadiusKm = 6371.0

	routeCacheNamespace = "route"
)

// Result is the outcome of one distance estimation.
type Result struct {
	// DistanceMeters is the travel (or great-circle) distance.
	DistanceMeters int `json:"distance_meters"`
	// DurationSeconds is the travel time; zero for haversine estimates.
	DurationSeconds int `json:"duration_seconds"`
	// Method records which computation produced the value.
	Method Method `json:"method"`
}

// Km returns the distance in kilometers rounded to 2 decimal places.
func (r Result) Km() float64 {
	return math.Round(float64(r.DistanceMeters)/1000*100) / 100
}

// Estimator returns a travel distance between two coordinate pairs,
// preferring the routing provider and falling back to haversine. It never
// fails: two coordinate pairs always yield at least a great-circle distance.
type Estimator struct {
	provider ports.RouteProvider
	cache    cache.Cache
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewEstimator creates an Estimator. The provider may be nil, in which case
// every estimate is haversine. The cache may be nil to disable route caching.
func NewEstimator(cfg config.GoogleConfig, provider ports.RouteProvider, c cache.Cache) *Estimator {
	return &Estimator{
		provider: provider,
		cache:    c,
		logger:   logger.Get(),
		cacheTTL: time.Duration(cfg.RouteCacheTTLSeconds) * time.Second,
	}
}

// Estimate computes the distance from origin to destination. Route lookups
// get a single attempt; a static coordinate pair produces a stable route so
// successful results are cached.
func (e *Estimator) Estimate(ctx context.Context, origin, destination domain.Coordinates) Result {
	if e.provider != nil && e.provider.Configured() {
		key := routeCacheKey(origin, destination)

		if e.cache != nil {
			var cached Result
			if err := cache.GetJSON(ctx, e.cache, key, &cached); err == nil {
				return cached
			}
		}

		route, err := e.provider.RouteDistance(ctx, origin, destination)
		if err == nil {
			result := Result{
				DistanceMeters:  route.DistanceMeters,
				DurationSeconds: route.DurationSeconds,
				Method:          MethodRoute,
			}
			if e.cache != nil {
				if cacheErr := cache.SetJSON(ctx, e.cache, key, result, e.cacheTTL); cacheErr != nil {
					e.logger.Warn("Route cache write failed", zap.Error(cacheErr))
				}
			}
			return result
		}

		e.logger.Debug("Route lookup failed, falling back to haversine", zap.Error(err))
	}

	km := HaversineKm(origin, destination)
	return Result{
		DistanceMeters: int(math.Round(km * 1000)),
		Method:         MethodHaversine,
	}
}

// HaversineKm computes the great-circle distance between two points in
// kilometers, rounded to 2 decimal places.
func HaversineKm(from, to domain.Coordinates) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLng := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*100) / 100
}

func routeCacheKey(origin, destination domain.Coordinates) string {
	return cache.Key(routeCacheNamespace,
		fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
	)
}
