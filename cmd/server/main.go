package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/api"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/catfact"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/config"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/errorreporting"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found (falling back to system env)")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Get()

	if err := errorreporting.Init(cfg.SentryDSN, cfg.SentryEnvironment); err != nil {
		log.Warn("Sentry init failed", "error", err)
	}
	defer errorreporting.Flush(2 * time.Second)

	shutdownTracing, err := tracing.Init("catfacts-api", cfg.OTELEnabled, cfg.OTELEndpoint)
	if err != nil {
		log.Warn("Tracing init failed", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	queries, err := db.Init(dbURL)
	if err != nil {
		log.Error("DB init failed", "error", err)
		os.Exit(1)
	}

	factCache, err := cache.NewLRU(cfg.CacheMaxSizeMB, cfg.CacheMaxEntries, cfg.FactCacheTTL)
	if err != nil {
		log.Error("Cache init failed", "error", err)
		os.Exit(1)
	}
	defer factCache.Close()

	external := catfact.NewClient(catfact.Options{
		URL:     cfg.CatFactsAPIURL,
		Timeout: cfg.ExternalTimeout,
		RPS:     cfg.IngestRPS,
		Burst:   cfg.IngestBurstSize,
	})

	factService := facts.NewService(queries, factCache, external, facts.Config{
		FactCacheTTL:  cfg.FactCacheTTL,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})

	tokenCfg := auth.Config{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; protected endpoints will reject all requests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.StatsWarmInterval > 0 {
		job := facts.NewStatsJob(factService, cfg.StatsWarmInterval)
		go job.Start(ctx)
	}

	router := api.NewRouter(api.Deps{
		Queries:   queries,
		Cache:     factCache,
		Facts:     factService,
		TokenCfg:  tokenCfg,
		Config:    cfg,
		StartedAt: time.Now(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // populate runs and websockets outlive short write deadlines
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
