package config

import (
	"os"
	"strings"
	"time"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/utils"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port string
	// External cat fact API
	CatFactsAPIURL  string
	ExternalTimeout time.Duration
	IngestRPS       float64 // requests per second to the external fact API
	IngestBurstSize int
	// Caching
	FactCacheTTL    time.Duration // fact pool and search results
	StatsCacheTTL   time.Duration // statistics snapshot (longer, expensive to compute)
	CacheMaxSizeMB  int64
	CacheMaxEntries int64
	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	// Security settings
	RateLimitGlobal      float64  // requests per second globally
	RateLimitGlobalBurst int      // burst size for global rate limit
	RateLimitPerIP       float64  // requests per second per IP
	RateLimitPerIPBurst  int      // burst size for per-IP rate limit
	CORSAllowedOrigins   []string // allowed CORS origins
	EnableRateLimit      bool     // enable rate limiting middleware
	// Background jobs
	StatsWarmInterval time.Duration // 0 disables the statistics warm job
	// Observability settings
	LogLevel          string  // log level: debug, info, warn, error
	OTELEnabled       bool    // enable OpenTelemetry tracing
	OTELEndpoint      string  // OpenTelemetry collector endpoint
	OTELSampleRate    float64 // trace sampling rate (0.0 to 1.0)
	SentryDSN         string  // Sentry DSN for error reporting
	SentryEnvironment string  // Sentry environment (dev, staging, production)
	SentryRelease     string  // Sentry release version
	SentrySampleRate  float64 // Sentry error sampling rate (0.0 to 1.0)
}

var cached *Config

// Load reads env vars once and caches them.
func Load() *Config {
	if cached != nil {
		return cached
	}
	apiURL := strings.TrimSpace(os.Getenv("CAT_FACTS_API_URL"))
	if apiURL == "" {
		apiURL = "https://catfact.ninja/fact"
	}
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}
	cached = &Config{
		Port:            port,
		CatFactsAPIURL:  apiURL,
		ExternalTimeout: time.Duration(utils.GetEnvAsInt("EXTERNAL_TIMEOUT_MS", 10000)) * time.Millisecond,
		// Default to 10 rps, i.e. ~100ms of courtesy spacing between fetches.
		IngestRPS:       utils.GetEnvAsFloat("INGEST_RPS", 10.0),
		IngestBurstSize: utils.GetEnvAsInt("INGEST_BURST_SIZE", 1),
		FactCacheTTL:    time.Duration(utils.GetEnvAsInt("CACHE_TTL", 300)) * time.Second,
		StatsCacheTTL:   time.Duration(utils.GetEnvAsInt("STATS_CACHE_TTL", 3600)) * time.Second,
		CacheMaxSizeMB:  int64(utils.GetEnvAsInt("CACHE_MAX_SIZE_MB", 32)),
		CacheMaxEntries: int64(utils.GetEnvAsInt("CACHE_MAX_ENTRIES", 10000)),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:          time.Duration(utils.GetEnvAsInt("JWT_TTL_HOURS", 72)) * time.Hour,
		// Security settings with sensible defaults
		RateLimitGlobal:      utils.GetEnvAsFloat("RATE_LIMIT_GLOBAL", 100.0),
		RateLimitGlobalBurst: utils.GetEnvAsInt("RATE_LIMIT_GLOBAL_BURST", 200),
		RateLimitPerIP:       utils.GetEnvAsFloat("RATE_LIMIT_PER_IP", 10.0),
		RateLimitPerIPBurst:  utils.GetEnvAsInt("RATE_LIMIT_PER_IP_BURST", 20),
		EnableRateLimit:      utils.GetEnvAsBool("ENABLE_RATE_LIMIT", true),
		CORSAllowedOrigins: utils.GetEnvAsSlice("CORS_ALLOWED_ORIGINS",
			[]string{"http://localhost:5173", "http://localhost:3000"}, ","),
		StatsWarmInterval: time.Duration(utils.GetEnvAsInt("STATS_WARM_INTERVAL_MIN", 0)) * time.Minute,
		// Observability settings
		LogLevel:          strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		OTELEnabled:       utils.GetEnvAsBool("OTEL_ENABLED", false),
		OTELEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTELSampleRate:    utils.GetEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
		SentryDSN:         strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		SentryEnvironment: strings.TrimSpace(os.Getenv("SENTRY_ENVIRONMENT")),
		SentryRelease:     strings.TrimSpace(os.Getenv("SENTRY_RELEASE")),
		SentrySampleRate:  utils.GetEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
	}
	if cached.LogLevel == "" {
		cached.LogLevel = "info"
	}
	if cached.SentryEnvironment == "" {
		if env := os.Getenv("ENV"); env != "" {
			cached.SentryEnvironment = env
		} else {
			cached.SentryEnvironment = "development"
		}
	}
	return cached
}

// ResetForTest clears cached config; for use in tests only.
func ResetForTest() { cached = nil }
