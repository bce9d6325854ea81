package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"shipping-quoter/internal/core/config"
	distservice "shipping-quoter/internal/features/distance/service"
	geodomain "shipping-quoter/internal/features/geocode/domain"
	geoports "shipping-quoter/internal/features/geocode/ports"
	pricingdomain "shipping-quoter/internal/features/pricing/domain"
	"shipping-quoter/internal/features/quote/domain"
	"shipping-quoter/internal/features/quote/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	result *geodomain.GeocodeResult
	err    error
}

func (s *stubResolver) Resolve(ctx context.Context, address string) (*geodomain.GeocodeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubEstimator struct {
	result distservice.Result
}

func (s *stubEstimator) Estimate(ctx context.Context, origin, destination geodomain.Coordinates) distservice.Result {
	return s.result
}

func newTestApp(t *testing.T, resolver *stubResolver) *fiber.App {
	t.Helper()

	store := config.StoreConfig{
		Latitude:   -18.9186,
		Longitude:  -48.2772,
		LocalTitle: "Entrega Flash",
	}
	tiers := pricingdomain.TierTable{
		{Label: "Raio 8 km", MaxDistanceKm: 8, Price: 11.80},
	}
	orchestrator := service.NewOrchestrator(store, tiers,
		resolver,
		&stubEstimator{result: distservice.Result{DistanceMeters: 5230, Method: distservice.MethodRoute}},
		nil,
		nil,
	)
	h := NewQuoteHandler(orchestrator, resolver)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	h.RegisterRoutes(app)
	return app
}

var resolvedResult = &geodomain.GeocodeResult{
	Coordinates:      geodomain.Coordinates{Latitude: -18.9302, Longitude: -48.2901},
	FormattedAddress: "Av. Afonso Pena, 1000 - Uberlândia - MG",
}

// TestQuoteHandler_CreateQuote verifies a full quote round trip.
func TestQuoteHandler_CreateQuote(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	body := `{
		"address": {
			"street": "Av. Afonso Pena",
			"number": "1000",
			"city": "Uberlândia",
			"state": "MG",
			"postal_code": "38400-100",
			"country": "BR"
		},
		"package": {"weight_kg": 1}
	}`
	req := httptest.NewRequest("POST", "/quote", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quote domain.Quote
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quote))
	assert.NotEmpty(t, quote.RequestID)
	require.Len(t, quote.Offers, 1)
	assert.Equal(t, "Entrega Flash", quote.Offers[0].Label)
	assert.Equal(t, 11.80, quote.Offers[0].Cost)
}

// TestQuoteHandler_CreateQuote_InvalidBody verifies malformed JSON handling.
func TestQuoteHandler_CreateQuote_InvalidBody(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	req := httptest.NewRequest("POST", "/quote", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestQuoteHandler_CreateQuote_MissingAddress verifies the empty-destination guard.
func TestQuoteHandler_CreateQuote_MissingAddress(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	req := httptest.NewRequest("POST", "/quote", bytes.NewBufferString(`{"package": {"weight_kg": 1}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "destination address is required")
}

// TestQuoteHandler_Geocode verifies the debug resolution endpoint.
func TestQuoteHandler_Geocode(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	req := httptest.NewRequest("GET", "/geocode?address=Av.+Afonso+Pena+1000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result geodomain.GeocodeResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, -18.9302, result.Coordinates.Latitude)
}

// TestQuoteHandler_Geocode_MissingAddress verifies parameter validation.
func TestQuoteHandler_Geocode_MissingAddress(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	resp, err := app.Test(httptest.NewRequest("GET", "/geocode", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestQuoteHandler_Geocode_ErrorMapping verifies error-to-status translation.
func TestQuoteHandler_Geocode_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no result", geoports.ErrNoResult, fiber.StatusNotFound},
		{"invalid address", fmt.Errorf("%w: empty", geoports.ErrInvalidAddress), fiber.StatusBadRequest},
		{"not configured", geoports.ErrNotConfigured, fiber.StatusServiceUnavailable},
		{"unavailable", geoports.ErrUnavailable, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, &stubResolver{err: tt.err})

			resp, err := app.Test(httptest.NewRequest("GET", "/geocode?address=x", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

// TestQuoteHandler_Health verifies the liveness endpoint.
func TestQuoteHandler_Health(t *testing.T) {
	app := newTestApp(t, &stubResolver{result: resolvedResult})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
