package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/api/handlers"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/auth"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/cache"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/config"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/db"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/facts"
	"github.com/whiskerlabs/catfacts-memory/backend/internal/middleware"
)

// Deps carries everything the router needs.
type Deps struct {
	Queries   *db.Queries
	Cache     cache.Cache
	Facts     *facts.Service
	TokenCfg  auth.Config
	Config    *config.Config
	StartedAt time.Time
}

// NewRouter builds the full HTTP surface: fact endpoints, user registration,
// game tracking, admin operations, and operational endpoints.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverWithSentry)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(corsConfig(d.Config)))
	r.Use(middleware.Metrics)
	r.Use(middleware.ValidateRequestBody)
	r.Use(middleware.Compress)

	if d.Config != nil && d.Config.EnableRateLimit {
		rl := middleware.NewRateLimiter(
			d.Config.RateLimitGlobal, d.Config.RateLimitGlobalBurst,
			d.Config.RateLimitPerIP, d.Config.RateLimitPerIPBurst,
		)
		r.Use(rl.Limit)
	}

	// Operational endpoints
	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.Handle("/ready", handlers.Ready(d.Queries.SQLDB())).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api", handlers.Index).Methods("GET")

	requireAuth := middleware.RequireAuth(d.TokenCfg)
	requireJSON := middleware.RequireJSON

	// Cat facts
	cf := r.PathPrefix("/api/cat-facts").Subrouter()
	cf.HandleFunc("/random", handlers.GetRandomFact(d.Facts)).Methods("GET")
	cf.HandleFunc("/random-multiple", handlers.GetMultipleRandomFacts(d.Facts)).Methods("GET")
	cf.HandleFunc("/search", handlers.SearchFacts(d.Facts)).Methods("GET")
	cf.HandleFunc("/statistics", handlers.GetStatistics(d.Facts)).Methods("GET")
	cf.HandleFunc("/status", handlers.Status(d.Queries.SQLDB(), d.Cache, d.StartedAt)).Methods("GET")
	cf.HandleFunc("", handlers.GetAllFacts(d.Facts)).Methods("GET")
	cf.Handle("/populate", requireAuth(handlers.PopulateFacts(d.Facts))).Methods("POST")
	cf.Handle("/populate/ws", requireAuth(handlers.PopulateProgress(d.Facts))).Methods("GET")
	cf.Handle("/status", requireAuth(requireJSON(handlers.BatchUpdateFactStatus(d.Facts)))).Methods("PATCH")

	// Users
	r.Handle("/api/users", requireJSON(handlers.CreateUser(d.Queries, d.TokenCfg))).Methods("POST")
	r.Handle("/api/users/login", requireJSON(handlers.Login(d.Queries, d.TokenCfg))).Methods("POST")
	r.Handle("/api/users", requireAuth(handlers.GetUsers(d.Queries))).Methods("GET")

	// Games
	g := r.PathPrefix("/api/games").Subrouter()
	g.Handle("", requireAuth(requireJSON(handlers.CreateGame(d.Queries)))).Methods("POST")
	g.Handle("/{id:[0-9]+}", requireAuth(requireJSON(handlers.FinishGame(d.Queries)))).Methods("PATCH")
	g.HandleFunc("/leaderboard", handlers.GetLeaderboard(d.Queries)).Methods("GET")
	g.HandleFunc("/summary", handlers.GetGameSummary(d.Queries)).Methods("GET")

	// Cache administration
	cacheAdmin := handlers.NewCacheAdminHandler(d.Cache, d.Facts.ClearFactCaches)
	admin := r.PathPrefix("/api/admin/cache").Subrouter()
	admin.Handle("/invalidate", requireAuth(http.HandlerFunc(cacheAdmin.InvalidateCache))).Methods("POST")
	admin.Handle("/stats", requireAuth(http.HandlerFunc(cacheAdmin.GetCacheStats))).Methods("GET")

	return r
}

func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if cfg != nil && len(cfg.CORSAllowedOrigins) > 0 {
		c.AllowedOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
