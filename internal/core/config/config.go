package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// RedisURL is the connection URL for the shared TTL cache.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Store holds the local delivery origin configuration.
	Store StoreConfig `mapstructure:",squash"`

	// Google holds the Google Maps API configuration.
	Google GoogleConfig `mapstructure:",squash"`

	// Dynamic holds the dynamic pricing configuration.
	Dynamic DynamicConfig `mapstructure:",squash"`

	// Weather holds the OpenWeather API configuration.
	Weather WeatherConfig `mapstructure:",squash"`

	// Correios holds the Correios carrier configuration.
	Correios CorreiosConfig `mapstructure:",squash"`
}

// StoreConfig describes the store the local delivery radius is measured from.
type StoreConfig struct {
	// Label is the human-readable name of the delivery base.
	Label string `mapstructure:"STORE_LABEL" default:"Base"`
	// Latitude of the store origin. Zero means unconfigured.
	Latitude float64 `mapstructure:"STORE_LAT"`
	// Longitude of the store origin. Zero means unconfigured.
	Longitude float64 `mapstructure:"STORE_LNG"`
	// OriginCEP is the postal code quotes are shipped from.
	OriginCEP string `mapstructure:"STORE_ORIGIN_CEP" default:"38400-000"`
	// LocalTitle is the label shown to customers for the local delivery offer.
	LocalTitle string `mapstructure:"STORE_LOCAL_TITLE" default:"Entrega Flash"`
	// LocalExclusive suppresses carrier quotes when local delivery is possible.
	LocalExclusive bool `mapstructure:"STORE_LOCAL_EXCLUSIVE" default:"false"`
	// TiersJSON optionally overrides the default tier table (JSON array).
	TiersJSON string `mapstructure:"STORE_TIERS_JSON"`
}

// HasOrigin reports whether the store origin coordinates are configured.
func (s StoreConfig) HasOrigin() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// GoogleConfig holds credentials and TTLs for the Google Maps APIs.
type GoogleConfig struct {
	// APIKey authenticates Geocoding and Distance Matrix calls.
	APIKey string `mapstructure:"GOOGLE_MAPS_API_KEY"`
	// Region biases geocoding results (ccTLD, e.g. "br").
	Region string `mapstructure:"GOOGLE_MAPS_REGION" default:"br"`
	// GeocodeCacheTTLSeconds controls how long geocode results are cached.
	GeocodeCacheTTLSeconds int `mapstructure:"GEOCODE_CACHE_TTL_SECONDS" default:"2592000"`
	// RouteCacheTTLSeconds controls how long route distances are cached.
	RouteCacheTTLSeconds int `mapstructure:"ROUTE_CACHE_TTL_SECONDS" default:"604800"`
	// FallbackLatitude is returned while the circuit breaker is open.
	FallbackLatitude float64 `mapstructure:"GEOCODE_FALLBACK_LAT"`
	// FallbackLongitude is returned while the circuit breaker is open.
	FallbackLongitude float64 `mapstructure:"GEOCODE_FALLBACK_LNG"`
}

// DynamicConfig holds the demand-based price adjustment settings.
type DynamicConfig struct {
	// Enabled toggles dynamic pricing entirely.
	Enabled bool `mapstructure:"DYNAMIC_PRICING_ENABLED" default:"false"`
	// WeekendFactor applies on Saturdays and Sundays.
	WeekendFactor float64 `mapstructure:"DYNAMIC_WEEKEND_FACTOR" default:"1.0"`
	// RainLightFactor applies for light rain (<=5mm/h).
	RainLightFactor float64 `mapstructure:"DYNAMIC_RAIN_LIGHT_FACTOR" default:"1.2"`
	// RainHeavyFactor applies for heavy rain (>5mm/h) and thunderstorms.
	RainHeavyFactor float64 `mapstructure:"DYNAMIC_RAIN_HEAVY_FACTOR" default:"1.5"`
	// Ceiling is the hard cap on the combined multiplier.
	Ceiling float64 `mapstructure:"DYNAMIC_MAX_MULTIPLIER" default:"2.0"`
	// PeakPeriods lists time-of-day surge windows as
	// "HH:MM-HH:MM=factor=label" entries separated by ";".
	PeakPeriods string `mapstructure:"DYNAMIC_PEAK_PERIODS"`
}

// PeakPeriod is a single configured surge window.
type PeakPeriod struct {
	// Start and End are clock times in "15:04" format, inclusive. An End
	// earlier than Start wraps the window past midnight.
	Start string
	End   string
	// Factor is the multiplier applied while inside the window.
	Factor float64
	// Label names the window in the price breakdown.
	Label string
}

// ParsePeakPeriods decodes the PeakPeriods setting. Malformed entries are
// skipped rather than failing startup since dynamic pricing inputs degrade
// to no-op instead of blocking quotes.
func (d DynamicConfig) ParsePeakPeriods() []PeakPeriod {
	if strings.TrimSpace(d.PeakPeriods) == "" {
		return nil
	}

	var periods []PeakPeriod
	for _, entry := range strings.Split(d.PeakPeriods, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, "=", 3)
		if len(parts) < 2 {
			continue
		}

		window := strings.SplitN(parts[0], "-", 2)
		if len(window) != 2 {
			continue
		}

		factor, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || factor <= 0 {
			continue
		}

		label := "Pico"
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			label = strings.TrimSpace(parts[2])
		}

		periods = append(periods, PeakPeriod{
			Start:  strings.TrimSpace(window[0]),
			End:    strings.TrimSpace(window[1]),
			Factor: factor,
			Label:  label,
		})
	}

	return periods
}

// WeatherConfig holds the OpenWeather integration settings.
type WeatherConfig struct {
	// APIKey authenticates OpenWeather calls. Empty disables the signal.
	APIKey string `mapstructure:"WEATHER_API_KEY"`
	// CacheTTLSeconds controls how long a weather reading is cached.
	CacheTTLSeconds int `mapstructure:"WEATHER_CACHE_TTL_SECONDS" default:"3600"`
}

// CorreiosConfig holds the Correios carrier quoting settings.
type CorreiosConfig struct {
	// Enabled toggles the carrier quote path.
	Enabled bool `mapstructure:"CORREIOS_ENABLED" default:"false"`
	// ContractCode and ContractPassword authenticate the REST API.
	ContractCode     string `mapstructure:"CORREIOS_CONTRACT_CODE"`
	ContractPassword string `mapstructure:"CORREIOS_CONTRACT_PASSWORD"`
	// Services is a comma-separated list of enabled service codes.
	Services string `mapstructure:"CORREIOS_SERVICES" default:"04510,04014"`
	// ProfitMarginPercent is added uniformly to every returned rate.
	ProfitMarginPercent float64 `mapstructure:"CORREIOS_PROFIT_MARGIN" default:"0"`
	// ContingencyEnabled activates the static regional rate table fallback.
	ContingencyEnabled bool `mapstructure:"CORREIOS_CONTINGENCY_ENABLED" default:"true"`
	// ContingencyJSON optionally overrides per-state contingency rates
	// (JSON object keyed by UF).
	ContingencyJSON string `mapstructure:"CORREIOS_CONTINGENCY_JSON"`
	// RateCacheTTLSeconds controls how long live quotes are cached.
	RateCacheTTLSeconds int `mapstructure:"CORREIOS_RATE_CACHE_TTL_SECONDS" default:"43200"`
}

// ServiceCodes returns the enabled service codes as a slice, falling back to
// PAC and SEDEX when the setting is empty.
func (c CorreiosConfig) ServiceCodes() []string {
	var codes []string
	for _, code := range strings.Split(c.Services, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		codes = []string{"04510", "04014"}
	}
	return codes
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
