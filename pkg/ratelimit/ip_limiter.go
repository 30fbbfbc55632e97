package ratelimit

import (
	"sync"
	"time"
)

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	limiters   map[string]*visitor
	mu         sync.Mutex
	maxTokens  float64
	refillRate float64
	idleTTL    time.Duration
	now        func() time.Time
	cleanup    *time.Ticker
	stopChan   chan struct{}
	stopOnce   sync.Once
}

type visitor struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// IPRateLimiterConfig configures an IPRateLimiter
type IPRateLimiterConfig struct {
	MaxTokens  float64
	RefillRate float64
	// IdleTTL is how long an unused bucket is kept
	IdleTTL time.Duration
	// CleanupInterval of zero disables the background sweep
	CleanupInterval time.Duration
	Clock           func() time.Time
}

// NewIPRateLimiter creates a new IPRateLimiter
func NewIPRateLimiter(cfg IPRateLimiterConfig) *IPRateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	limiter := &IPRateLimiter{
		limiters:   make(map[string]*visitor),
		maxTokens:  cfg.MaxTokens,
		refillRate: cfg.RefillRate,
		idleTTL:    cfg.IdleTTL,
		now:        cfg.Clock,
		stopChan:   make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		limiter.cleanup = time.NewTicker(cfg.CleanupInterval)
		go limiter.cleanupLoop()
	}

	return limiter
}

// Allow reports whether a request from ip may proceed, and when not, how long to wait
func (ipl *IPRateLimiter) Allow(ip string) (bool, time.Duration) {
	bucket := ipl.getLimiter(ip)
	if bucket.Allow() {
		return true, 0
	}
	return false, bucket.RetryAfter()
}

// Len returns the number of tracked clients
func (ipl *IPRateLimiter) Len() int {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()
	return len(ipl.limiters)
}

func (ipl *IPRateLimiter) getLimiter(ip string) *TokenBucket {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	v, exists := ipl.limiters[ip]
	if !exists {
		v = &visitor{bucket: newTokenBucket(ipl.maxTokens, ipl.refillRate, ipl.now)}
		ipl.limiters[ip] = v
	}
	v.lastSeen = ipl.now()
	return v.bucket
}

// Sweep drops buckets idle for longer than the TTL
func (ipl *IPRateLimiter) Sweep() int {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	cutoff := ipl.now().Add(-ipl.idleTTL)
	removed := 0
	for ip, v := range ipl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(ipl.limiters, ip)
			removed++
		}
	}
	return removed
}

func (ipl *IPRateLimiter) cleanupLoop() {
	for {
		select {
		case <-ipl.cleanup.C:
			ipl.Sweep()
		case <-ipl.stopChan:
			ipl.cleanup.Stop()
			return
		}
	}
}

// Stop stops the background sweep
func (ipl *IPRateLimiter) Stop() {
	ipl.stopOnce.Do(func() { close(ipl.stopChan) })
}
