package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/pageza/recipes/backend/internal/model"
)

// ErrNotFound is returned when no published recipe matches a lookup
var ErrNotFound = errors.New("not found")

const (
	homeCacheKey     = "home"
	categoryCacheKey = "category:%d"

	// bounds a shared listing query once it no longer follows a request
	listingQueryTimeout = 30 * time.Second
)

var _ IRecipeService = (*RecipeService)(nil)

// RecipeService handles recipe operations
type RecipeService struct {
	db    *gorm.DB
	cache ListingCache
	log   logrus.FieldLogger

	// concurrent misses on the same listing share one query
	loads singleflight.Group
	// bumped by every write; listings read under an older generation are not cached
	generation atomic.Uint64
}

// NewRecipeService creates a new RecipeService instance. cache may be nil.
func NewRecipeService(db *gorm.DB, cache ListingCache, log logrus.FieldLogger) *RecipeService {
	return &RecipeService{
		db:    db,
		cache: cache,
		log:   log.WithField("source", "recipe_service"),
	}
}

// published is the base query of every read path
func (s *RecipeService) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Preload("Category").
		Where("is_published = ?", true)
}

// ListPublished returns all published recipes, newest first. The slice may
// be shared with concurrent callers and must not be modified.
func (s *RecipeService) ListPublished(ctx context.Context) ([]model.Recipe, error) {
	if recipes, ok := s.cached(ctx, homeCacheKey); ok {
		return recipes, nil
	}

	return s.load(ctx, homeCacheKey, func(ctx context.Context) ([]model.Recipe, error) {
		var recipes []model.Recipe
		if err := s.published(ctx).Order("id DESC").Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		return recipes, nil
	})
}

// ListPublishedByCategory returns the published recipes of a category,
// newest first. ErrNotFound is returned when there are none.
func (s *RecipeService) ListPublishedByCategory(ctx context.Context, categoryID uint) ([]model.Recipe, error) {
	key := fmt.Sprintf(categoryCacheKey, categoryID)
	if recipes, ok := s.cached(ctx, key); ok && len(recipes) > 0 {
		return recipes, nil
	}

	return s.load(ctx, key, func(ctx context.Context) ([]model.Recipe, error) {
		var recipes []model.Recipe
		err := s.published(ctx).
			Where("category_id = ?", categoryID).
			Order("id DESC").
			Find(&recipes).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes of category %d: %w", categoryID, err)
		}
		if len(recipes) == 0 {
			return nil, ErrNotFound
		}
		return recipes, nil
	})
}

// load runs query once per key and write generation across concurrent
// callers, and caches the result unless a write happened meanwhile. The
// shared query does not inherit the caller's cancellation; each caller stops
// waiting when its own ctx is done.
func (s *RecipeService) load(ctx context.Context, key string, query func(context.Context) ([]model.Recipe, error)) ([]model.Recipe, error) {
	gen := s.generation.Load()
	flight := fmt.Sprintf("%s@%d", key, gen)

	ch := s.loads.DoChan(flight, func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listingQueryTimeout)
		defer cancel()

		recipes, err := query(qctx)
		if err != nil {
			return nil, err
		}
		s.storeIfCurrent(qctx, gen, key, recipes)
		return recipes, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Recipe), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// storeIfCurrent caches a listing read under generation gen. A write that
// lands while Set is in flight clears the cache again afterwards.
func (s *RecipeService) storeIfCurrent(ctx context.Context, gen uint64, key string, recipes []model.Recipe) {
	if s.cache == nil || s.generation.Load() != gen {
		return
	}
	s.store(ctx, key, recipes)
	if s.generation.Load() != gen {
		s.clearCache(ctx)
	}
}

// GetPublished retrieves a published recipe by ID
func (s *RecipeService) GetPublished(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.published(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// CreateCategory creates a new category
func (s *RecipeService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	category := &model.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if strings.TrimSpace(recipe.Title) == "" {
		return nil, errors.New("recipe title is required")
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.invalidate(ctx)
	return recipe, nil
}

// SetPublished publishes or unpublishes a recipe. Unpublishing is how
// recipes are removed from the site.
func (s *RecipeService) SetPublished(ctx context.Context, id uint, published bool) error {
	result := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to update recipe %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx)
	return nil
}

func (s *RecipeService) cached(ctx context.Context, key string) ([]model.Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}
	recipes, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("listing cache read failed")
		return nil, false
	}
	return recipes, ok
}

func (s *RecipeService) store(ctx context.Context, key string, recipes []model.Recipe) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, recipes); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("listing cache write failed")
	}
}

func (s *RecipeService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	s.clearCache(ctx)
}

func (s *RecipeService) clearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Error("listing cache invalidation failed")
	}
}
