package cli

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipes/backend/config"
	"github.com/pageza/recipes/backend/internal/database"
	"github.com/pageza/recipes/backend/internal/service"
)

type services struct {
	redis   *redis.Client
	recipes *service.RecipeService
	covers  *service.CoverService
}

// newServices wires the optional redis cache and S3 covers around the
// database. Redis being down is not fatal; the site runs uncached.
func newServices(ctx context.Context, a *app) (*services, error) {
	s := &services{}

	var cache service.ListingCache
	if a.cfg.RedisEnabled() {
		client, err := database.NewRedisClient(a.cfg, a.log)
		if err != nil {
			if config.GetEnvironment() == config.Production {
				return nil, err
			}
			a.log.WithError(err).Warn("redis unavailable, running without cache and rate limiting")
		} else {
			s.redis = client
			cache = service.NewRedisListingCache(client, a.cfg.CacheTTL)
		}
	}
	s.recipes = service.NewRecipeService(a.db, cache, a.log)

	var signer service.URLSigner
	if a.cfg.StorageEnabled() {
		s3cfg, err := config.NewS3Config(ctx, a.cfg)
		if err != nil {
			return nil, err
		}
		signer = s3cfg
	}
	s.covers = service.NewCoverService(signer, a.cfg.CoverURLTTL, a.log)

	return s, nil
}

func (s *services) close() {
	if s.redis != nil {
		s.redis.Close()
	}
}
