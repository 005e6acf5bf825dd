// Package limiter provides per-IP request rate limiting using the token
// bucket algorithm. Idle buckets are cleaned up periodically so the map
// does not grow without bound.
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupInterval = 3 * time.Minute

// IPRateLimiter hands out one rate.Limiter per client IP.
type IPRateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter
	r      rate.Limit
	b      int

	// OnReject writes the 429 response. Defaults to http.Error.
	OnReject http.HandlerFunc
}

// NewIPRateLimiter creates a limiter allowing r events per second with
// burst b per IP and starts the background cleanup goroutine.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		OnReject: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		},
	}

	go i.cleanup()

	return i
}

func (i *IPRateLimiter) limiterFor(ip string) *rate.Limiter {
	i.mu.RLock()
	lim, ok := i.limits[ip]
	i.mu.RUnlock()
	if ok {
		return lim
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if lim, ok = i.limits[ip]; !ok {
		lim = rate.NewLimiter(i.r, i.b)
		i.limits[ip] = lim
	}
	return lim
}

// cleanup drops buckets that have refilled completely; those IPs have
// been idle long enough to forget.
func (i *IPRateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		for ip, lim := range i.limits {
			if lim.TokensAt(time.Now()) >= float64(lim.Burst()) {
				delete(i.limits, ip)
			}
		}
		i.mu.Unlock()
	}
}

// Middleware rejects requests from IPs that exceed their bucket.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown"
		}

		if !i.limiterFor(ip).Allow() {
			i.OnReject(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
