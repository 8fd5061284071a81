package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/apierr"
)

const ipLimiterIdleTTL = 3 * time.Minute

// RateLimiter enforces a global request budget plus a smaller per-client-IP
// budget on top of it. Per-IP limiters are created lazily and dropped after
// a few minutes of inactivity.
type RateLimiter struct {
	global *rate.Limiter

	mu      sync.Mutex
	perIP   map[string]*ipEntry
	ipRate  rate.Limit
	ipBurst int

	cleanup *time.Ticker
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter with requests-per-second rates and burst
// sizes for the whole process and for each client IP.
func NewRateLimiter(globalRate float64, globalBurst int, ipRate float64, ipBurst int) *RateLimiter {
	rl := &RateLimiter{
		global:  rate.NewLimiter(rate.Limit(globalRate), globalBurst),
		perIP:   make(map[string]*ipEntry),
		ipRate:  rate.Limit(ipRate),
		ipBurst: ipBurst,
		cleanup: time.NewTicker(time.Minute),
	}
	go rl.evictIdle()
	return rl
}

func (rl *RateLimiter) allowIP(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.perIP[ip]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(rl.ipRate, rl.ipBurst)}
		rl.perIP[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimiter) evictIdle() {
	for range rl.cleanup.C {
		cutoff := time.Now().Add(-ipLimiterIdleTTL)
		rl.mu.Lock()
		for ip, entry := range rl.perIP {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.perIP, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Stop halts the background eviction ticker.
func (rl *RateLimiter) Stop() {
	rl.cleanup.Stop()
}

// Limit rejects requests over either budget with a 429 error envelope. The
// global check runs first so one hot IP cannot mask process-wide pressure.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.global.Allow() {
			apierr.WriteErrorWithContext(w, r, apierr.RateLimitGlobal())
			return
		}
		if !rl.allowIP(getClientIP(r)) {
			apierr.WriteErrorWithContext(w, r, apierr.RateLimitIP())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP resolves the client address, trusting proxy headers when
// present: the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
