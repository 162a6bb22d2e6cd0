// README: Entry point; loads config, wires providers and services, serves HTTP until signalled.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfarer/internal/ai"
	"wayfarer/internal/config"
	httptransport "wayfarer/internal/http"
	"wayfarer/internal/infra"
	"wayfarer/internal/maps"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/modules/quota"
	"wayfarer/internal/modules/trips"
)

func main() {
	if err := run(); err != nil {
		slog.Error("wayfarer-api stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := infra.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telemetry, err := infra.SetupTelemetry(cfg.Telemetry.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", "err", err)
		}
	}()

	llm, closeLLM, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	placesSvc, err := maps.NewPlacesService(ctx, cfg.Places.APIKey)
	if err != nil {
		return err
	}
	defer placesSvc.Close()
	geocoder, err := maps.NewGeocoder(cfg.Places.APIKey)
	if err != nil {
		return err
	}
	var cache maps.Cache = maps.NewMemoryCache(cfg.Redis.CacheTTL)
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		cache = maps.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	}
	places := maps.NewCachedPlaces(placesSvc, cache, log)

	balancer := itinerary.NewBalancer(places, itinerary.BalancerConfig{
		RadiusM:    cfg.Generation.SearchRadiusM,
		MaxResults: cfg.Generation.MaxResults,
	}, log)
	generator := itinerary.NewService(balancer, llm, cfg.AI.Model, cfg.Generation.Timeout, log)

	deps := httptransport.ServerDeps{
		Generator:   generator,
		Chat:        llm,
		Places:      places,
		Locator:     geocoder,
		Metrics:     telemetry.MetricsHandler(),
		ChatTimeout: cfg.AI.ChatTimeout,
		Log:         log,
	}

	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		deps.Quota = quota.NewService(quota.NewStore(dbPool, cfg.Generation.MonthlyQuota))
	} else {
		log.Warn("WAYFARER_DB_DSN not set; generation quota disabled")
	}

	if cfg.Firebase.ProjectID != "" {
		fs, err := infra.NewFirestore(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return err
		}
		defer fs.Close()
		deps.Trips = trips.NewService(trips.NewStore(fs))
	} else {
		log.Warn("WAYFARER_FIREBASE_PROJECT not set; trip persistence disabled")
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTP.Addr, "provider", llm.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newProvider(ctx context.Context, cfg config.Config) (ai.LLMProvider, func(), error) {
	if cfg.AI.Provider == "gemini" {
		p, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	p := ai.NewOpenAIProvider("groq", cfg.AI.GroqKey, cfg.AI.GroqBaseURL, cfg.AI.Model, cfg.AI.Temperature)
	return p, func() {}, nil
}
