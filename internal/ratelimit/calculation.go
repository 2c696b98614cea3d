package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/carbonledger/internal/config"
)

const keyCalculation = "calc:client:%s"

// CalculationLimiter throttles the calculation endpoints per client. A nil
// limiter (rate limiting disabled) allows everything.
type CalculationLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewCalculationLimiter(cfg config.Config) (*CalculationLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.RateLimitPerMin <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, errors.New("rate limit per-minute rate and burst must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &CalculationLimiter{
		bucket: NewTokenBucket(client),
		rate:   float64(cfg.RateLimitPerMin) / 60.0,
		burst:  cfg.RateLimitBurst,
	}, nil
}

func (l *CalculationLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *CalculationLimiter) Allow(ctx context.Context, clientKey string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyCalculation, strings.TrimSpace(clientKey)), l.rate, l.burst)
}
