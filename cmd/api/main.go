package main

import (
	"log"
	"time"

	"shipping-quoter/internal/core/cache"
	"shipping-quoter/internal/core/config"
	"shipping-quoter/internal/core/httpclient"
	"shipping-quoter/internal/core/logger"
	"shipping-quoter/internal/core/server"
	carrieradapter "shipping-quoter/internal/features/carrier/adapters"
	carrierports "shipping-quoter/internal/features/carrier/ports"
	carrierservice "shipping-quoter/internal/features/carrier/service"
	distanceadapter "shipping-quoter/internal/features/distance/adapters"
	distanceservice "shipping-quoter/internal/features/distance/service"
	geocodeadapter "shipping-quoter/internal/features/geocode/adapters"
	geocodeservice "shipping-quoter/internal/features/geocode/service"
	pricingdomain "shipping-quoter/internal/features/pricing/domain"
	pricingservice "shipping-quoter/internal/features/pricing/service"
	quotehandler "shipping-quoter/internal/features/quote/handler"
	quoteservice "shipping-quoter/internal/features/quote/service"
	weatheradapter "shipping-quoter/internal/features/weather/adapters"
	weatherports "shipping-quoter/internal/features/weather/ports"

	"go.uber.org/zap"
)

// @title Shipping Quoter API
// @version 1.0
// @description Shipping quote engine combining tier-priced local delivery with Correios carrier rates.
// @contact.name API Support
// @contact.email support@shippingquoter.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	cacheAdapter, err := cache.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		l.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer cacheAdapter.Close()
	l.Info("Redis connection verified")

	tiers, err := pricingdomain.LoadTierTable(cfg.Store.TiersJSON)
	if err != nil {
		l.Fatal("Invalid tier table configuration", zap.Error(err))
	}

	httpClient := httpclient.NewClient(10 * time.Second)
	carrierClient := httpclient.NewClient(5 * time.Second)

	// Geocoding with cache, retries and circuit breaker.
	googleAdapter := geocodeadapter.NewGoogleAdapter(cfg.Google, httpClient)
	notifier := geocodeadapter.NewLogNotifier()
	resolver := geocodeservice.NewResolver(cfg.Google, googleAdapter, cacheAdapter, notifier)
	if !googleAdapter.Configured() {
		l.Warn("Google Maps API key missing or malformed, local delivery offers disabled")
	}

	// Distance with haversine fallback.
	matrixAdapter := distanceadapter.NewDistanceMatrixAdapter(cfg.Google, httpClient)
	estimator := distanceservice.NewEstimator(cfg.Google, matrixAdapter, cacheAdapter)

	// Dynamic pricing, weather-aware when a key is configured.
	var weatherProvider weatherports.Provider
	if cfg.Weather.APIKey != "" {
		weatherProvider = weatheradapter.NewOpenWeatherAdapter(cfg.Weather, httpClient, cacheAdapter)
	}
	modifier := pricingservice.NewModifier(cfg.Dynamic, weatherProvider)

	// Carrier rates: live API when contract credentials exist, static
	// contingency table otherwise.
	var rateProvider carrierports.RateProvider
	correiosAdapter := carrieradapter.NewCorreiosAdapter(cfg.Correios, cfg.Store.OriginCEP, carrierClient, cacheAdapter)
	if correiosAdapter.Configured() {
		rateProvider = correiosAdapter
	} else if cfg.Correios.Enabled {
		l.Warn("Correios contract credentials missing, serving contingency rates only")
	}
	aggregator := carrierservice.NewAggregator(cfg.Correios, cfg.Store.OriginCEP, rateProvider, cacheAdapter)

	orchestrator := quoteservice.NewOrchestrator(cfg.Store, tiers, resolver, estimator, modifier, aggregator)
	quoteHdl := quotehandler.NewQuoteHandler(orchestrator, resolver)

	srv := server.New(cfg)
	quoteHdl.RegisterRoutes(srv.App)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
