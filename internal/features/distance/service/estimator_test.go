package service

import (
	"context"
	"errors"
	"testing"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/features/distance/ports"
	"shipping-quoter/internal/features/geocode/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRouteProvider is a scriptable ports.RouteProvider.
type mockRouteProvider struct {
	configured bool
	calls      int
	result     *ports.RouteResult
	err        error
}

func (m *mockRouteProvider) RouteDistance(ctx context.Context, origin, destination domain.Coordinates) (*ports.RouteResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockRouteProvider) Configured() bool {
	return m.configured
}

func testCache(t *testing.T) cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

var testGoogleCfg = config.GoogleConfig{RouteCacheTTLSeconds: 604800}

// TestEstimator_Estimate_Route verifies the route path and its method tag.
func TestEstimator_Estimate_Route(t *testing.T) {
	provider := &mockRouteProvider{
		configured: true,
		result:     &ports.RouteResult{DistanceMeters: 5230, DurationSeconds: 780},
	}

	e := NewEstimator(testGoogleCfg, provider, testCache(t))

	result := e.Estimate(context.Background(),
		domain.Coordinates{Latitude: -18.9186, Longitude: -48.2772},
		domain.Coordinates{Latitude: -18.9302, Longitude: -48.2901},
	)

	assert.Equal(t, MethodRoute, result.Method)
	assert.Equal(t, 5230, result.DistanceMeters)
	assert.Equal(t, 780, result.DurationSeconds)
	assert.Equal(t, 5.23, result.Km())
}

// TestEstimator_Estimate_RouteCached verifies a repeated pair hits the cache.
func TestEstimator_Estimate_RouteCached(t *testing.T) {
	provider := &mockRouteProvider{
		configured: true,
		result:     &ports.RouteResult{DistanceMeters: 5230, DurationSeconds: 780},
	}

	e := NewEstimator(testGoogleCfg, provider, testCache(t))
	ctx := context.Background()

	origin := domain.Coordinates{Latitude: -18.9186, Longitude: -48.2772}
	dest := domain.Coordinates{Latitude: -18.9302, Longitude: -48.2901}

	first := e.Estimate(ctx, origin, dest)
	second := e.Estimate(ctx, origin, dest)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, first, second)
}

// TestEstimator_Estimate_FallbackOnError verifies haversine fallback.
func TestEstimator_Estimate_FallbackOnError(t *testing.T) {
	provider := &mockRouteProvider{
		configured: true,
		err:        errors.New("provider down"),
	}

	e := NewEstimator(testGoogleCfg, provider, testCache(t))

	result := e.Estimate(context.Background(),
		domain.Coordinates{Latitude: 0, Longitude: 0},
		domain.Coordinates{Latitude: 0, Longitude: 1},
	)

	assert.Equal(t, MethodHaversine, result.Method)
	assert.InDelta(t, 111.19, result.Km(), 0.5)
	assert.Zero(t, result.DurationSeconds)
}

// TestEstimator_Estimate_NoProvider verifies a nil provider still estimates.
func TestEstimator_Estimate_NoProvider(t *testing.T) {
	e := NewEstimator(testGoogleCfg, nil, nil)

	result := e.Estimate(context.Background(),
		domain.Coordinates{Latitude: 0, Longitude: 0},
		domain.Coordinates{Latitude: 0, Longitude: 1},
	)

	assert.Equal(t, MethodHaversine, result.Method)
}

// TestHaversineKm_Equator checks 1 degree of longitude at the equator.
func TestHaversineKm_Equator(t *testing.T) {
	d := HaversineKm(domain.Coordinates{Latitude: 0, Longitude: 0}, domain.Coordinates{Latitude: 0, Longitude: 1})
	assert.InDelta(t, 111.19, d, 0.5)
}

// TestHaversineKm_Symmetry verifies argument order does not matter.
func TestHaversineKm_Symmetry(t *testing.T) {
	a := domain.Coordinates{Latitude: -18.9186, Longitude: -48.2772}
	b := domain.Coordinates{Latitude: -23.5613, Longitude: -46.6558}

	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
}

// TestHaversineKm_ZeroDistance verifies identical points yield zero.
func TestHaversineKm_ZeroDistance(t *testing.T) {
	p := domain.Coordinates{Latitude: -18.9186, Longitude: -48.2772}
	assert.Zero(t, HaversineKm(p, p))
}
