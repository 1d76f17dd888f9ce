package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipes/backend/internal/logging"
	"github.com/pageza/recipes/backend/internal/model"
	"github.com/pageza/recipes/backend/internal/testhelpers"
)

// memoryCache is an in-process ListingCache for tests
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]model.Recipe
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]model.Recipe{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]model.Recipe, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recipes, ok := c.entries[key]
	return recipes, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, recipes []model.Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = recipes
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]model.Recipe{}
	return nil
}

func newTestService(t *testing.T) (*RecipeService, *fixtureDB) {
	db := testhelpers.SetupTestDatabase(t)
	return NewRecipeService(db, nil, logging.Discard()), &fixtureDB{t: t, db: db}
}

func TestListPublishedEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	recipes, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestListPublishedExcludesUnpublishedNewestFirst(t *testing.T) {
	svc, fx := newTestService(t)
	first := fx.recipe(testhelpers.WithTitle("First"))
	fx.recipe(testhelpers.WithTitle("Hidden"), testhelpers.WithPublished(false))
	second := fx.recipe(testhelpers.WithTitle("Second"))

	recipes, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)
	require.NotNil(t, recipes[0].Category)
	assert.Equal(t, "Category", recipes[0].Category.Name)
}

func TestListPublishedByCategory(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	desserts := testhelpers.MakeCategory(t, fx.db, "Desserts")
	mains := testhelpers.MakeCategory(t, fx.db, "Mains")
	pie := fx.recipe(testhelpers.WithTitle("Pie"), testhelpers.WithCategory(desserts))
	fx.recipe(testhelpers.WithTitle("Hidden cake"), testhelpers.WithCategory(desserts), testhelpers.WithPublished(false))
	fx.recipe(testhelpers.WithTitle("Steak"), testhelpers.WithCategory(mains))

	recipes, err := svc.ListPublishedByCategory(ctx, desserts.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, pie.ID, recipes[0].ID)
	assert.Equal(t, "Desserts", recipes[0].CategoryName())

	_, err = svc.ListPublishedByCategory(ctx, 1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublishedByCategoryUnpublishedOnly(t *testing.T) {
	svc, fx := newTestService(t)
	recipe := fx.recipe(testhelpers.WithPublished(false))

	_, err := svc.ListPublishedByCategory(context.Background(), *recipe.CategoryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublished(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()

	published := fx.recipe(testhelpers.WithTitle("Visible"))
	hidden := fx.recipe(testhelpers.WithPublished(false))

	recipe, err := svc.GetPublished(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, "Visible", recipe.Title)
	assert.Equal(t, "Category", recipe.CategoryName())

	_, err = svc.GetPublished(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetPublished(ctx, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPublished(t *testing.T) {
	svc, fx := newTestService(t)
	ctx := context.Background()
	recipe := fx.recipe()

	require.NoError(t, svc.SetPublished(ctx, recipe.ID, false))
	_, err := svc.GetPublished(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.SetPublished(ctx, recipe.ID, true))
	_, err = svc.GetPublished(ctx, recipe.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPublished(ctx, 9999, true), ErrNotFound)
}

func TestCreateRecipeAndCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "  ")
	assert.Error(t, err)

	category, err := svc.CreateCategory(ctx, "Soups")
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, &model.Recipe{})
	assert.Error(t, err)

	recipe, err := svc.CreateRecipe(ctx, &model.Recipe{
		Title:           "Tomato Soup",
		Description:     "Warm",
		PreparationTime: 20,
		IsPublished:     true,
		CategoryID:      &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreparationTimeUnit, recipe.PreparationTimeUnit)

	recipes, err := svc.ListPublishedByCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "20 Minutes", recipes[0].PreparationTimeLabel())
}

func TestListingCache(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cache := newMemoryCache()
	svc := NewRecipeService(db, cache, logging.Discard())
	ctx := context.Background()

	recipe := testhelpers.MakeRecipe(t, db)

	recipes, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 1, cache.sets)

	// a write that bypasses the service is not seen until the entry is dropped
	testhelpers.MakeRecipe(t, db, testhelpers.WithTitle("Bypass"))
	recipes, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	// writes through the service invalidate
	require.NoError(t, svc.SetPublished(ctx, recipe.ID, false))
	recipes, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Bypass", recipes[0].Title)
}

func TestListingCacheFailureFallsBackToDatabase(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	svc := NewRecipeService(db, NewRedisListingCache(client, time.Minute), logging.Discard())
	testhelpers.MakeRecipe(t, db)

	recipes, err := svc.ListPublished(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	_, err = svc.CreateRecipe(context.Background(), &model.Recipe{Title: "Still works", Description: "x"})
	assert.NoError(t, err)
}

func TestDatabaseErrorsAreNotNotFound(t *testing.T) {
	db, mock := testhelpers.SetupMockDatabase(t)
	svc := NewRecipeService(db, nil, logging.Discard())

	mock.ExpectQuery(`SELECT \* FROM "recipes"`).WillReturnError(errors.New("connection reset"))
	_, err := svc.ListPublished(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")

	mock.ExpectQuery(`SELECT \* FROM "recipes"`).WillReturnError(errors.New("connection reset"))
	_, err = svc.GetPublished(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

type fixtureDB struct {
	t  *testing.T
	db *gorm.DB
}

func (f *fixtureDB) recipe(opts ...testhelpers.RecipeOption) *model.Recipe {
	return testhelpers.MakeRecipe(f.t, f.db, opts...)
}

func TestConcurrentListingsAgree(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cache := newMemoryCache()
	svc := NewRecipeService(db, cache, logging.Discard())
	fx := &fixtureDB{t: t, db: db}
	for i := 0; i < 3; i++ {
		fx.recipe()
	}

	var wg sync.WaitGroup
	results := make([][]model.Recipe, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ListPublished(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 3)
	}
	assert.LessOrEqual(t, cache.sets, len(results))
}

// slowCache holds up its first Set until released
type slowCache struct {
	*memoryCache
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (c *slowCache) Set(ctx context.Context, key string, recipes []model.Recipe) error {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	return c.memoryCache.Set(ctx, key, recipes)
}

func TestUnpublishDuringListingIsNotCached(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cache := &slowCache{
		memoryCache: newMemoryCache(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	svc := NewRecipeService(db, cache, logging.Discard())
	recipe := testhelpers.MakeRecipe(t, db)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.ListPublished(ctx)
		done <- err
	}()

	// the listing has been read and is about to be cached
	<-cache.entered
	require.NoError(t, svc.SetPublished(ctx, recipe.ID, false))
	close(cache.release)
	require.NoError(t, <-done)

	recipes, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes, "unpublished recipe served from cache")

	_, err = svc.GetPublished(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuringListingIsNotCached(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cache := &slowCache{
		memoryCache: newMemoryCache(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	svc := NewRecipeService(db, cache, logging.Discard())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.ListPublished(ctx)
		done <- err
	}()

	<-cache.entered
	_, err := svc.CreateRecipe(ctx, &model.Recipe{Title: "Fresh", Description: "x", IsPublished: true})
	require.NoError(t, err)
	close(cache.release)
	require.NoError(t, <-done)

	recipes, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Fresh", recipes[0].Title)
}

func TestCancelledCallerDoesNotFailSharedListing(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := NewRecipeService(db, nil, logging.Discard())
	testhelpers.MakeRecipe(t, db)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:hold_first_query", func(*gorm.DB) {
		once.Do(func() {
			close(entered)
			<-release
		})
	}))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.ListPublished(ctxA)
		errA <- err
	}()
	<-entered

	type result struct {
		recipes []model.Recipe
		err     error
	}
	resB := make(chan result, 1)
	go func() {
		recipes, err := svc.ListPublished(context.Background())
		resB <- result{recipes, err}
	}()
	// give the second caller time to join the in-flight query
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.recipes, 1)
}
