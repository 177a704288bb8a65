package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"potd_board/internal/domain/model"
	"potd_board/internal/leetcode"
	"potd_board/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

type POTDService struct {
	client leetcode.API
	rdb    *redis.Client // nil disables caching
	ttl    time.Duration
}

func NewPOTDService(client leetcode.API, rdb *redis.Client, ttl time.Duration) *POTDService {
	return &POTDService{client: client, rdb: rdb, ttl: ttl}
}

// cache key includes the UTC date so a stale entry can never outlive the day
// it describes.
func (s *POTDService) cacheKey(now time.Time) string {
	return "potd:" + now.UTC().Format("2006-01-02")
}

// cacheTTL expires the entry at UTC midnight when that comes sooner than the
// configured TTL, so the entry dies with the day it describes.
func (s *POTDService) cacheTTL(now time.Time) time.Duration {
	utc := now.UTC()
	remaining := utc.Truncate(24 * time.Hour).Add(24 * time.Hour).Sub(utc)
	if s.ttl > 0 && s.ttl < remaining {
		return s.ttl
	}
	return remaining
}

func (s *POTDService) Get(ctx context.Context) (*model.POTD, error) {
	key := s.cacheKey(time.Now())
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var potd model.POTD
			if err := json.Unmarshal([]byte(cached), &potd); err == nil {
				return &potd, nil
			}
			logger.L().Warnw("Discarding unreadable POTD cache entry", "key", key)
		} else if !errors.Is(err, redis.Nil) {
			logger.L().Warnw("POTD cache read failed", "error", err)
		}
	}

	return s.Refresh(ctx)
}

// Refresh fetches the daily challenge from LeetCode and rewrites the cache
// entry. The worker calls it right after UTC midnight.
func (s *POTDService) Refresh(ctx context.Context) (*model.POTD, error) {
	potd, err := s.client.FetchDailyChallenge(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch daily challenge: %w", err)
	}

	if s.rdb != nil {
		encoded, err := json.Marshal(potd)
		if err == nil {
			now := time.Now()
			if err := s.rdb.Set(ctx, s.cacheKey(now), encoded, s.cacheTTL(now)).Err(); err != nil {
				logger.L().Warnw("POTD cache write failed", "error", err)
			}
		}
	}
	return potd, nil
}
