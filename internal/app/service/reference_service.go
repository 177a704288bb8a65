package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"potd_board/internal/common"
	"potd_board/internal/domain/model"
	"potd_board/internal/leetcode"
	"potd_board/internal/platform/logger"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
)

type ReferenceService struct {
	client  leetcode.API
	baseURL string
	rdb     *redis.Client // nil disables caching
	ttl     time.Duration
}

func NewReferenceService(client leetcode.API, baseURL string, rdb *redis.Client, ttl time.Duration) *ReferenceService {
	return &ReferenceService{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		rdb:     rdb,
		ttl:     ttl,
	}
}

// Build returns curated reference links for a problem plus, best effort, the
// top community solution in the requested language. A community-solution
// failure degrades the response rather than failing it.
func (s *ReferenceService) Build(ctx context.Context, rawSlug, language string) (*model.ReferencesResponse, error) {
	normalizedSlug := strings.TrimSpace(rawSlug)
	if normalizedSlug == "" {
		return nil, fmt.Errorf("slug is required: %w", common.ErrBadRequest)
	}
	normalizedSlug = slug.Make(normalizedSlug)

	languageTag, canonicalLanguage, aliases := leetcode.ResolveLanguage(language)

	cacheKey := fmt.Sprintf("references:%s:%s", normalizedSlug, languageTag)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var response model.ReferencesResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return &response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.L().Warnw("Reference cache read failed", "error", err)
		}
	}

	items := []model.ReferenceItem{
		{
			Title:  "LeetCode Official Editorial",
			URL:    fmt.Sprintf("%s/problems/%s/editorial/", s.baseURL, normalizedSlug),
			Source: model.ReferenceSourceEditorial,
		},
	}

	communityURL := fmt.Sprintf("%s/problems/%s/solutions/?orderBy=most_votes", s.baseURL, normalizedSlug)
	if languageTag != "" {
		communityURL += "&languageTags=" + languageTag
	}
	var itemLanguage *string
	if canonicalLanguage != "" {
		itemLanguage = &canonicalLanguage
	}
	items = append(items, model.ReferenceItem{
		Title:    "Most Voted Community Discussions",
		URL:      communityURL,
		Language: itemLanguage,
		Source:   model.ReferenceSourceSolutionsIndex,
	})

	communitySolution, err := s.client.FetchTopCommunitySolution(ctx, normalizedSlug, languageTag, aliases, canonicalLanguage)
	if err != nil {
		logger.L().Warnw("Unable to fetch community solution",
			"slug", normalizedSlug, "language_tag", languageTag, "error", err)
		communitySolution = nil
	}

	response := &model.ReferencesResponse{
		Slug:              normalizedSlug,
		Language:          itemLanguage,
		Items:             items,
		CommunitySolution: communitySolution,
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(response); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, encoded, s.ttl).Err(); err != nil {
				logger.L().Warnw("Reference cache write failed", "error", err)
			}
		}
	}
	return response, nil
}
