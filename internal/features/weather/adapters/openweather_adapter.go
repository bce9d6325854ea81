package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/logger"
	geodomain "shipping-quoter/internal/features/geocode/domain"
	"shipping-quoter/internal/features/weather/domain"

	"go.uber.org/zap"
)

const (
	defaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	weatherCacheNamespace = "weather"
)

// OpenWeatherAdapter implements ports.Provider against the OpenWeatherMap
// current-weather API. Readings are cached: weather does not change fast
// enough to justify a call per quote.
type OpenWeatherAdapter struct {
	cfg      config.WeatherConfig
	baseURL  string
	client   *http.Client
	cache    cache.Cache
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewOpenWeatherAdapter creates an OpenWeatherAdapter. The cache may be nil
// to disable reading caching.
func NewOpenWeatherAdapter(cfg config.WeatherConfig, client *http.Client, c cache.Cache) *OpenWeatherAdapter {
	return &OpenWeatherAdapter{
		cfg:      cfg,
		baseURL:  defaultWeatherURL,
		client:   client,
		cache:    c,
		logger:   logger.Get(),
		cacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}
}

// Configured reports whether an API key is present.
func (a *OpenWeatherAdapter) Configured() bool {
	return a.cfg.APIKey != ""
}

type openWeatherResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Current fetches the weather near the given coordinates. A nil reading with
// a nil error means no usable data; the caller should assume clear weather.
func (a *OpenWeatherAdapter) Current(ctx context.Context, at geodomain.Coordinates) (*domain.Reading, error) {
	if !a.Configured() {
		return nil, nil
	}

	key := cache.Key(weatherCacheNamespace,
		fmt.Sprintf("%.3f,%.3f", at.Latitude, at.Longitude),
	)

	if a.cache != nil {
		var cached domain.Reading
		if err := cache.GetJSON(ctx, a.cache, key, &cached); err == nil {
			return &cached, nil
		}
	}

	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", at.Latitude))
	query.Set("lon", fmt.Sprintf("%f", at.Longitude))
	query.Set("appid", a.cfg.APIKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var body openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	if len(body.Weather) == 0 {
		return nil, nil
	}

	reading := &domain.Reading{
		Condition:       body.Weather[0].Main,
		PrecipMMPerHour: body.Rain.OneHour,
	}

	if a.cache != nil {
		if cacheErr := cache.SetJSON(ctx, a.cache, key, reading, a.cacheTTL); cacheErr != nil {
			a.logger.Warn("Weather cache write failed", zap.Error(cacheErr))
		}
	}

	return reading, nil
}
