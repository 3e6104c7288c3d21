package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"vitalog/internal/domain"
	"vitalog/internal/logger"
)

const (
	nutritionCachePrefix = "vitalog:nutrition:"
	nutritionCacheTTL    = 7 * 24 * time.Hour
)

// CachedAIService wraps an AIService to cache nutrition lookups in
// Redis, reducing model calls for foods that were already looked up.
// Cache failures fall through to the inner service and never surface.
type CachedAIService struct {
	domain.AIService
	client *redis.Client
}

func NewCachedAIService(inner domain.AIService, client *redis.Client) *CachedAIService {
	return &CachedAIService{
		AIService: inner,
		client:    client,
	}
}

// LookupNutrition checks the cache first. If the food is not found, it
// calls the inner service, stores the result and returns it.
func (s *CachedAIService) LookupNutrition(ctx context.Context, foodName string) (domain.NutrientProfile, error) {
	key := nutritionCacheKey(foodName)

	if cached, err := s.client.Get(ctx, key).Result(); err == nil {
		var profile domain.NutrientProfile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return profile, nil
		}
		logger.Warn("Discarding unreadable nutrition cache entry", "key", key)
	}

	profile, err := s.AIService.LookupNutrition(ctx, foodName)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		if err := s.client.Set(ctx, key, payload, nutritionCacheTTL).Err(); err != nil {
			logger.Warn("Failed to cache nutrition lookup", "key", key, "error", err)
		}
	}
	return profile, nil
}

func nutritionCacheKey(foodName string) string {
	return nutritionCachePrefix + strings.ToLower(strings.TrimSpace(foodName))
}
