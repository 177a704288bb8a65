package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"potd_board/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOTDGet_UncachedFetchesUpstream(t *testing.T) {
	var calls int
	api := &fakeLeetCodeAPI{
		fetchDailyChallenge: func(ctx context.Context) (*model.POTD, error) {
			calls++
			return &model.POTD{
				Date:       "2026-08-29",
				Slug:       "two-sum",
				Title:      "Two Sum",
				Difficulty: model.DifficultyEasy,
				Tags:       []model.Tag{},
			}, nil
		},
	}
	svc := NewPOTDService(api, nil, 24*time.Hour)

	potd, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two-sum", potd.Slug)
	assert.Equal(t, 1, calls)

	// Without a cache every call goes upstream.
	_, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPOTDRefresh_UpstreamError(t *testing.T) {
	api := &fakeLeetCodeAPI{
		fetchDailyChallenge: func(ctx context.Context) (*model.POTD, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := NewPOTDService(api, nil, 24*time.Hour)

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch daily challenge")
}

func TestPOTDCacheTTLExpiresWithTheUTCDay(t *testing.T) {
	svc := NewPOTDService(&fakeLeetCodeAPI{}, nil, 24*time.Hour)

	// Late in the UTC day only the remainder of the day is left.
	evening := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, svc.cacheTTL(evening))

	almostMidnight := time.Date(2026, 8, 29, 23, 59, 30, 0, time.UTC)
	assert.Equal(t, 30*time.Second, svc.cacheTTL(almostMidnight))

	// A shorter configured TTL still wins early in the day.
	short := NewPOTDService(&fakeLeetCodeAPI{}, nil, 10*time.Minute)
	morning := time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, 10*time.Minute, short.cacheTTL(morning))
}

func TestPOTDCacheKeyTracksUTCDate(t *testing.T) {
	svc := NewPOTDService(&fakeLeetCodeAPI{}, nil, 24*time.Hour)

	day1 := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, "potd:2026-08-29", svc.cacheKey(day1))
	assert.Equal(t, "potd:2026-08-30", svc.cacheKey(day2))

	// A local timestamp resolves to the UTC day.
	local := time.Date(2026, 8, 29, 22, 0, 0, 0, time.FixedZone("UTC+4", 4*3600))
	assert.Equal(t, "potd:2026-08-29", svc.cacheKey(local))
}
