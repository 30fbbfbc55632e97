package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vaidashi/backoffice-api/pkg/logger"
	"github.com/vaidashi/backoffice-api/pkg/ratelimit"
)

// RejectFunc writes the response for a throttled request
type RejectFunc func(w http.ResponseWriter, r *http.Request)

// RateLimiterMiddleware throttles requests per client IP
type RateLimiterMiddleware struct {
	ipLimiter         *ratelimit.IPRateLimiter
	logger            logger.Logger
	trustForwardedFor bool
	reject            RejectFunc
}

// RateLimiterConfig configures the rate limiter middleware
type RateLimiterConfig struct {
	IPMaxTokens       float64
	IPRefillRate      float64
	TrustForwardedFor bool
	// Reject defaults to a plain 429
	Reject RejectFunc
}

// NewRateLimiterMiddleware creates a new rate limiter middleware
func NewRateLimiterMiddleware(cfg RateLimiterConfig, logger logger.Logger) *RateLimiterMiddleware {
	reject := cfg.Reject
	if reject == nil {
		reject = func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		}
	}

	return &RateLimiterMiddleware{
		ipLimiter: ratelimit.NewIPRateLimiter(ratelimit.IPRateLimiterConfig{
			MaxTokens:       cfg.IPMaxTokens,
			RefillRate:      cfg.IPRefillRate,
			CleanupInterval: 5 * time.Minute,
		}),
		logger:            logger,
		trustForwardedFor: cfg.TrustForwardedFor,
		reject:            reject,
	}
}

// Middleware returns a middleware function
func (m *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := m.getClientIP(r)

		if ok, wait := m.ipLimiter.Allow(ip); !ok {
			m.logger.Warn("IP rate limit exceeded", "method", r.Method, "path", r.URL.Path, "ip", ip)

			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			m.reject(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request
func (m *RateLimiterMiddleware) getClientIP(r *http.Request) string {
	if m.trustForwardedFor {
		if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
			ips := strings.Split(forwardedFor, ",")
			return strings.TrimSpace(ips[0])
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Stop stops the limiter's background sweep
func (m *RateLimiterMiddleware) Stop() {
	m.ipLimiter.Stop()
}
