package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/features/geocode/domain"
	"shipping-quoter/internal/features/geocode/ports"

	"go.uber.org/zap"
)

const (
	maxAttempts = 3

	// Breaker thresholds: 5 consecutive failures within a rolling hour open
	// the circuit; operator notifications go out at most once per hour.
	breakerThreshold = 5
	breakerWindow    = time.Hour
	notifyThrottle   = time.Hour

	geocodeCacheNamespace = "geocode"
)

// Resolver converts free-form addresses into coordinates with caching,
// bounded retries and a circuit breaker over the geocoding provider.
type Resolver struct {
	provider ports.GeocodingProvider
	cache    cache.Cache
	notifier ports.Notifier
	logger   *zap.Logger

	cacheTTL time.Duration
	fallback domain.Coordinates

	breaker *failureBreaker

	// sleep and now are injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewResolver creates a Resolver. The notifier may be nil, in which case
// breaker-open events are only logged.
func NewResolver(cfg config.GoogleConfig, provider ports.GeocodingProvider, c cache.Cache, notifier ports.Notifier) *Resolver {
	return &Resolver{
		provider: provider,
		cache:    c,
		notifier: notifier,
		logger:   logger.Get(),
		cacheTTL: time.Duration(cfg.GeocodeCacheTTLSeconds) * time.Second,
		fallback: domain.Coordinates{
			Latitude:  cfg.FallbackLatitude,
			Longitude: cfg.FallbackLongitude,
		},
		breaker: newFailureBreaker(breakerThreshold, breakerWindow, notifyThrottle),
		sleep:   sleepContext,
		now:     time.Now,
	}
}

// Resolve geocodes an address. Cache hits return immediately; misses go to
// the provider with up to three attempts whose backoff depends on the error
// class. While the breaker is open, or after retries are exhausted, the
// configured fallback coordinates are returned flagged as such.
func (r *Resolver) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ports.ErrInvalidAddress)
	}

	if !r.provider.Configured() {
		return nil, ports.ErrNotConfigured
	}

	key := cache.Key(geocodeCacheNamespace, address)

	var cached domain.GeocodeResult
	if err := cache.GetJSON(ctx, r.cache, key, &cached); err == nil {
		if !cached.Expired(r.now()) {
			return &cached, nil
		}
		// Expired entries are logically absent.
		_ = r.cache.Delete(ctx, key)
	} else if !cache.IsMiss(err) {
		r.logger.Warn("Geocode cache read failed", zap.Error(err))
	}

	if r.breaker.Open() {
		r.logger.Warn("Geocoding circuit breaker open, using fallback coordinates",
			zap.String("address", address),
		)
		return r.fallbackResult()
	}

	result, err := r.resolveWithRetries(ctx, address)
	if err != nil {
		return nil, err
	}
	if result.IsFallback {
		return result, nil
	}

	result.CreatedAt = r.now()
	result.ExpiresAt = result.CreatedAt.Add(r.cacheTTL)

	if err := cache.SetJSON(ctx, r.cache, key, result, r.cacheTTL); err != nil {
		r.logger.Warn("Geocode cache write failed", zap.Error(err))
	}

	return result, nil
}

// resolveWithRetries runs the bounded retry loop against the provider.
func (r *Resolver) resolveWithRetries(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := r.provider.Geocode(ctx, address)
		if err == nil {
			r.breaker.RecordSuccess()
			return result, nil
		}
		lastErr = err

		// Input errors cannot be fixed by retrying.
		if errors.Is(err, ports.ErrInvalidAddress) || errors.Is(err, ports.ErrNoResult) || errors.Is(err, ports.ErrNotConfigured) {
			return nil, err
		}

		if attempt == maxAttempts {
			break
		}

		backoff := transientBackoff(attempt)
		if errors.Is(err, ports.ErrRateLimited) {
			backoff = rateLimitBackoff(attempt)
		}

		r.logger.Debug("Geocoding attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		if err := r.sleep(ctx, backoff); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
		}
	}

	r.recordFailure(ctx)

	r.logger.Error("Geocoding failed after retries",
		zap.String("address", address),
		zap.Error(lastErr),
	)

	if result, err := r.fallbackResult(); err == nil {
		return result, nil
	}

	if errors.Is(lastErr, ports.ErrRateLimited) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, lastErr)
}

// recordFailure feeds the breaker and dispatches the throttled notification
// when it opens.
func (r *Resolver) recordFailure(ctx context.Context) {
	failures, opened, notify := r.breaker.RecordFailure()

	if opened {
		r.logger.Warn("Geocoding circuit breaker opened",
			zap.Int("consecutive_failures", failures),
		)
	}

	if notify && r.notifier != nil {
		r.notifier.Notify(ctx,
			"Geocoding provider failing",
			fmt.Sprintf("Circuit breaker opened after %d consecutive geocoding failures; quotes are using fallback coordinates.", failures),
		)
	}
}

// fallbackResult returns the configured default coordinates, or an error
// when none are configured.
func (r *Resolver) fallbackResult() (*domain.GeocodeResult, error) {
	if r.fallback.IsZero() {
		return nil, ports.ErrUnavailable
	}
	return &domain.GeocodeResult{
		Coordinates: r.fallback,
		IsFallback:  true,
	}, nil
}

// transientBackoff is exponential: 500ms * 2^(attempt-1), capped at 5s.
func transientBackoff(attempt int) time.Duration {
	backoff := 500 * time.Millisecond << (attempt - 1)
	if backoff > 5*time.Second {
		backoff = 5 * time.Second
	}
	return backoff
}

// rateLimitBackoff is linear and longer: 2s * attempt.
func rateLimitBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 2 * time.Second
}

// sleepContext waits for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
