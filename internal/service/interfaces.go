package service

import (
	"context"
	"time"

	"github.com/pageza/recipes/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListPublished(ctx context.Context) ([]model.Recipe, error)
	ListPublishedByCategory(ctx context.Context, categoryID uint) ([]model.Recipe, error)
	GetPublished(ctx context.Context, id uint) (*model.Recipe, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	SetPublished(ctx context.Context, id uint, published bool) error
}

// ICoverService resolves recipe cover images to URLs a browser can load
type ICoverService interface {
	CoverURL(ctx context.Context, key string) string
}

// ListingCache stores rendered-ready recipe listings between requests
type ListingCache interface {
	Get(ctx context.Context, key string) ([]model.Recipe, bool, error)
	Set(ctx context.Context, key string, recipes []model.Recipe) error
	Invalidate(ctx context.Context) error
}

// URLSigner issues time-limited URLs for stored objects
type URLSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}
