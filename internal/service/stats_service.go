package service

import (
	"context"
	"encoding/json"
	"time"

	"practice-service/internal/cache"
	"practice-service/internal/models"
	"practice-service/internal/repository"
)

const (
	leaderboardCacheKey = "practice:leaderboard"
	leaderboardCacheTTL = time.Minute
	leaderboardSize     = 25
)

// StatsService serves the reporting views over stored practice facts:
// per-user analytics summaries and the global leaderboard. The leaderboard
// read goes through Redis when a cache is configured.
type StatsService struct {
	ProgressRepo *repository.ProgressRepository
	Cache        *cache.Cache
}

func NewStatsService(progressRepo *repository.ProgressRepository, c *cache.Cache) *StatsService {
	return &StatsService{ProgressRepo: progressRepo, Cache: c}
}

func (s *StatsService) Summary(ctx context.Context, userID string) (*models.UserSummary, error) {
	return s.ProgressRepo.UserSummary(ctx, userID)
}

// Leaderboard returns the ranked top users, reading through the cache when
// one is configured. Cache failures fall back to the store.
func (s *StatsService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, leaderboardCacheKey); err == nil && cached != "" {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.ProgressRepo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if body, err := json.Marshal(entries); err == nil {
			_ = s.Cache.Set(ctx, leaderboardCacheKey, string(body), leaderboardCacheTTL)
		}
	}
	return entries, nil
}
