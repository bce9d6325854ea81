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
	"shipping-quoter/internal/features/distance/ports"
	"shipping-quoter/internal/features/geocode/domain"

	"go.uber.org/zap"
)

const defaultDistanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// DistanceMatrixAdapter implements ports.RouteProvider against the Google
// Distance Matrix API.
type DistanceMatrixAdapter struct {
	cfg     config.GoogleConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewDistanceMatrixAdapter creates a DistanceMatrixAdapter.
func NewDistanceMatrixAdapter(cfg config.GoogleConfig, client *http.Client) *DistanceMatrixAdapter {
	return &DistanceMatrixAdapter{
		cfg:     cfg,
		baseURL: defaultDistanceMatrixURL,
		client:  client,
		logger:  logger.Get(),
	}
}

// Configured reports whether an API key with a plausible format is present.
func (a *DistanceMatrixAdapter) Configured() bool {
	key := a.cfg.APIKey
	return len(key) == 39 && strings.HasPrefix(key, "AIza")
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// RouteDistance queries the Distance Matrix API for one origin/destination
// pair. Single attempt: routing is an accuracy improvement, not critical path.
func (a *DistanceMatrixAdapter) RouteDistance(ctx context.Context, origin, destination domain.Coordinates) (*ports.RouteResult, error) {
	if !a.Configured() {
		return nil, fmt.Errorf("distance matrix not configured")
	}

	query := url.Values{}
	query.Set("origins", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	query.Set("destinations", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	query.Set("key", a.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding distance matrix response: %w", err)
	}

	if body.Status != "OK" {
		return nil, fmt.Errorf("distance matrix status %s", body.Status)
	}

	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return nil, ports.ErrNoRoute
	}

	element := body.Rows[0].Elements[0]
	if element.Status != "OK" {
		a.logger.Debug("Distance matrix element not routable",
			zap.String("element_status", element.Status),
		)
		return nil, fmt.Errorf("%w: element status %s", ports.ErrNoRoute, element.Status)
	}

	return &ports.RouteResult{
		DistanceMeters:  element.Distance.Value,
		DurationSeconds: element.Duration.Value,
	}, nil
}
