package airtable

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket limiter for record-store requests.
// Airtable enforces 5 requests/second per base; exceeding it answers 429
// and penalizes the base for a cooldown period, so the client throttles
// itself instead of burning retries.
type RateLimiter struct {
	mu sync.Mutex

	tokens         float64   // current number of tokens
	maxTokens      float64   // bucket size
	refillRate     float64   // tokens added per second
	lastRefillTime time.Time // last time tokens were refilled
	pausedUntil    time.Time // no requests until this instant (after a 429)
}

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	MaxTokens  float64 // max burst capacity (default: 5)
	RefillRate float64 // tokens per second (default: 4)
}

// DefaultRateLimiterConfig returns defaults that stay under Airtable's
// 5 req/s quota with a little headroom.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MaxTokens:  5,
		RefillRate: 4,
	}
}

// NewRateLimiter creates a new rate limiter with the given config.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultRateLimiterConfig().MaxTokens
	}
	if config.RefillRate <= 0 {
		config.RefillRate = DefaultRateLimiterConfig().RefillRate
	}
	return &RateLimiter{
		tokens:         config.MaxTokens,
		maxTokens:      config.MaxTokens,
		refillRate:     config.RefillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refillTokens()

		now := time.Now()
		if now.After(r.pausedUntil) && r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}

		var wait time.Duration
		if now.Before(r.pausedUntil) {
			wait = r.pausedUntil.Sub(now)
		} else {
			// Time until the next token is refilled.
			wait = time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
		}
		r.mu.Unlock()

		if wait < 10*time.Millisecond {
			wait = 10 * time.Millisecond
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pause suspends all requests for the given duration. Called when the API
// answers 429 with a Retry-After header.
func (r *RateLimiter) Pause(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

func (r *RateLimiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefillTime).Seconds()
	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefillTime = now
}
