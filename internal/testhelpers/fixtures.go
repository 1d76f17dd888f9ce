package testhelpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/recipes/backend/internal/model"
)

// RecipeOption customises a recipe built by MakeRecipe
type RecipeOption func(*model.Recipe)

func WithTitle(title string) RecipeOption {
	return func(r *model.Recipe) { r.Title = title }
}

func WithPreparationTime(minutes int) RecipeOption {
	return func(r *model.Recipe) { r.PreparationTime = minutes }
}

func WithPublished(published bool) RecipeOption {
	return func(r *model.Recipe) { r.IsPublished = published }
}

func WithCategory(category *model.Category) RecipeOption {
	return func(r *model.Recipe) {
		r.Category = category
		r.CategoryID = &category.ID
	}
}

func WithSteps(steps string, isHTML bool) RecipeOption {
	return func(r *model.Recipe) {
		r.PreparationSteps = steps
		r.PreparationStepsIsHTML = isHTML
	}
}

func WithCover(key string) RecipeOption {
	return func(r *model.Recipe) { r.CoverKey = key }
}

// MakeCategory inserts a category
func MakeCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

// MakeRecipe inserts a published recipe with the standard fixture values.
// Unless WithCategory is given, a new "Category" row is created for it.
func MakeRecipe(t *testing.T, db *gorm.DB, opts ...RecipeOption) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		Title:               "Recipe Title",
		Description:         "Recipe Description",
		PreparationTime:     10,
		PreparationTimeUnit: "Minutes",
		Servings:            5,
		ServingsUnit:        "Servings",
		PreparationSteps:    "Recipe Preparation Steps",
		IsPublished:         true,
	}
	for _, opt := range opts {
		opt(recipe)
	}
	if recipe.Category == nil {
		WithCategory(MakeCategory(t, db, "Category"))(recipe)
	}

	// gorm would otherwise upsert the association
	category := recipe.Category
	recipe.Category = nil
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	recipe.Category = category
	return recipe
}
