package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/features/geocode/domain"
	"shipping-quoter/internal/features/geocode/ports"

	"go.uber.org/zap"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleAdapter implements ports.GeocodingProvider against the Google
// Geocoding API.
type GoogleAdapter struct {
	cfg     config.GoogleConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGoogleAdapter creates a GoogleAdapter using the given HTTP client.
func NewGoogleAdapter(cfg config.GoogleConfig, client *http.Client) *GoogleAdapter {
	return &GoogleAdapter{
		cfg:     cfg,
		baseURL: defaultGeocodeURL,
		client:  client,
		logger:  logger.Get(),
	}
}

// Configured reports whether an API key with a plausible format is present.
// Google API keys are 39 characters starting with "AIza".
func (a *GoogleAdapter) Configured() bool {
	key := a.cfg.APIKey
	return len(key) == 39 && strings.HasPrefix(key, "AIza")
}

// googleGeocodeResponse mirrors the Geocoding API JSON envelope.
type googleGeocodeResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []googleResult `json:"results"`
}

type googleResult struct {
	FormattedAddress  string `json:"formatted_address"`
	PlaceID           string `json:"place_id"`
	AddressComponents []struct {
		LongName  string   `json:"long_name"`
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Geocode resolves an address via the Geocoding API. Provider statuses are
// mapped onto the ports error taxonomy so the resolver can decide whether a
// retry makes sense.
func (a *GoogleAdapter) Geocode(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	if !a.Configured() {
		return nil, ports.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", a.cfg.APIKey)
	if a.cfg.Region != "" {
		query.Set("region", a.cfg.Region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ports.ErrUnavailable, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("%w: %s", ports.ErrNoResult, address)
	case "INVALID_REQUEST":
		return nil, fmt.Errorf("%w: %s", ports.ErrInvalidAddress, body.ErrorMessage)
	case "OVER_QUERY_LIMIT":
		return nil, ports.ErrRateLimited
	default:
		a.logger.Warn("Geocoding returned unexpected status",
			zap.String("status", body.Status),
			zap.String("error_message", body.ErrorMessage),
		)
		return nil, fmt.Errorf("%w: status %s: %s", ports.ErrUnavailable, body.Status, body.ErrorMessage)
	}

	if len(body.Results) == 0 {
		return nil, fmt.Errorf("%w: empty result set", ports.ErrNoResult)
	}

	best := body.Results[0]
	return &domain.GeocodeResult{
		Coordinates: domain.Coordinates{
			Latitude:  best.Geometry.Location.Lat,
			Longitude: best.Geometry.Location.Lng,
		},
		FormattedAddress: best.FormattedAddress,
		Components:       parseComponents(best),
		PlaceID:          best.PlaceID,
	}, nil
}

// parseComponents maps Google component types onto semantic fields.
func parseComponents(result googleResult) map[domain.ComponentKind]string {
	parsed := make(map[domain.ComponentKind]string)

	for _, component := range result.AddressComponents {
		for _, typ := range component.Types {
			switch typ {
			case "street_number":
				parsed[domain.ComponentStreetNumber] = component.LongName
			case "route":
				parsed[domain.ComponentStreet] = component.LongName
			case "sublocality", "sublocality_level_1":
				parsed[domain.ComponentNeighborhood] = component.LongName
			case "administrative_area_level_2":
				parsed[domain.ComponentCity] = component.LongName
			case "administrative_area_level_1":
				parsed[domain.ComponentState] = component.LongName
				parsed[domain.ComponentStateCode] = component.ShortName
			case "country":
				parsed[domain.ComponentCountry] = component.LongName
			case "postal_code":
				parsed[domain.ComponentPostalCode] = component.LongName
			}
		}
	}

	return parsed
}
