package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// QuoteTTL bounds how stale a cached quote may get.
	QuoteTTL = 5 * time.Minute
	// HistoryTTL covers daily candles, which only change once a day.
	HistoryTTL = 24 * time.Hour
	// IntradayTTL keeps the one-minute series fresh.
	IntradayTTL = time.Minute
)

// Service is a thin JSON cache over Redis. A Service built from a nil client
// is valid and behaves as an always-miss cache, so the app runs without
// Redis.
type Service struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

// GetJSON loads key into v and reports whether it was a hit.
func (s *Service) GetJSON(ctx context.Context, key string, v any) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("cache: bad payload for %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores v under key for ttl; failures are logged and swallowed.
func (s *Service) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if s == nil || s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: marshal %s: %v", key, err)
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}
