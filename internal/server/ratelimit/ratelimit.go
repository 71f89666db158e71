// Package ratelimit provides per-client, per-endpoint rate limiting using
// token buckets from golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucket struct {
	limiter    *rate.Limiter
	burst      int
	lastAccess time.Time
}

// Limiter manages token buckets keyed by client, endpoint and method.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	config      *Config
	cleanupStop chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow reports whether a request from clientID to endpoint may proceed.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// Unlimited endpoint (e.g., health check)
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.getBucket(clientID+":"+endpoint+":"+method, endpointConfig, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	perSecond := float64(b.limiter.Limit())

	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: max(0, int(tokens)),
		ResetTime: now,
	}
	if missing := float64(b.burst) - tokens; missing > 0 {
		info.ResetTime = now.Add(seconds(missing / perSecond))
	}
	if !allowed {
		info.RetryAfter = max(0, seconds((1-tokens)/perSecond))
	}
	return allowed, info
}

func (l *Limiter) getBucket(key string, cfg *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		every := cfg.Window / time.Duration(cfg.Limit)
		b = &bucket{
			limiter: rate.NewLimiter(rate.Every(every), burst),
			burst:   burst,
		}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets(l.now().Add(-1 * time.Hour))
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets not accessed since cutoff.
func (l *Limiter) cleanupBuckets(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Size returns the number of live buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
