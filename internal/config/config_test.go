package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// ensure defaults kick in with empty env
	os.Unsetenv("CAT_FACTS_API_URL")
	os.Unsetenv("CACHE_TTL")
	os.Unsetenv("STATS_CACHE_TTL")
	os.Unsetenv("EXTERNAL_TIMEOUT_MS")
	os.Unsetenv("INGEST_RPS")
	os.Unsetenv("PORT")
	ResetForTest()

	cfg := Load()
	if cfg.CatFactsAPIURL != "https://catfact.ninja/fact" {
		t.Fatalf("expected default API URL, got %q", cfg.CatFactsAPIURL)
	}
	if cfg.FactCacheTTL != 5*time.Minute {
		t.Fatalf("expected default fact TTL=5m, got %s", cfg.FactCacheTTL)
	}
	if cfg.StatsCacheTTL != time.Hour {
		t.Fatalf("expected default stats TTL=1h, got %s", cfg.StatsCacheTTL)
	}
	if cfg.ExternalTimeout != 10*time.Second {
		t.Fatalf("expected default external timeout=10s, got %s", cfg.ExternalTimeout)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Setenv("CACHE_TTL", "60")
	os.Setenv("INGEST_RPS", "2.5")
	os.Setenv("CORS_ALLOWED_ORIGINS", "https://cats.example.com, https://play.example.com")
	defer func() {
		os.Unsetenv("CACHE_TTL")
		os.Unsetenv("INGEST_RPS")
		os.Unsetenv("CORS_ALLOWED_ORIGINS")
		ResetForTest()
	}()
	ResetForTest()

	cfg := Load()
	if cfg.FactCacheTTL != time.Minute {
		t.Fatalf("expected fact TTL=1m, got %s", cfg.FactCacheTTL)
	}
	if cfg.IngestRPS != 2.5 {
		t.Fatalf("expected ingest rps=2.5, got %f", cfg.IngestRPS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://play.example.com" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadCaches(t *testing.T) {
	ResetForTest()
	first := Load()
	second := Load()
	if first != second {
		t.Fatal("expected Load to return the cached instance")
	}
}
