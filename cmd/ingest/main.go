// Command ingest runs one bulk fact ingestion from the external API and
// exits. Useful for cron-driven repopulation without going through the HTTP
// surface.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/catfact"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/config"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/logger"
)

func main() {
	count := flag.Int("count", 50, "number of external fetch cycles to run (1-100)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found (falling back to system env)")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.WithComponent("ingest-cli")

	if *count < 1 || *count > 100 {
		log.Error("count must be between 1 and 100", "count", *count)
		os.Exit(2)
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

	// The cache here only absorbs the post-run invalidation; nothing is
	// shared with a running server process.
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

	service := facts.NewService(queries, factCache, external, facts.Config{
		FactCacheTTL:  cfg.FactCacheTTL,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := service.PopulateFromExternalAPI(ctx, *count)
	if err != nil {
		log.Error("Ingestion interrupted", "error", err,
			"imported", result.Imported, "duplicates", result.Duplicates, "errors", result.Errors)
		os.Exit(1)
	}

	log.Info("Ingestion complete",
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"errors", result.Errors,
		"aborted", result.Aborted,
		"success_rate", result.SuccessRate,
	)
	if result.Aborted {
		os.Exit(1)
	}
}
