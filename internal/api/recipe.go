package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipes/backend/internal/middleware"
	"github.com/pageza/recipes/backend/internal/model"
	"github.com/pageza/recipes/backend/internal/service"
	"github.com/pageza/recipes/backend/internal/templates"
)

// RecipeHandler serves the public recipe pages
type RecipeHandler struct {
	recipes service.IRecipeService
	covers  service.ICoverService
}

// NewRecipeHandler creates a new RecipeHandler. covers may be nil.
func NewRecipeHandler(recipes service.IRecipeService, covers service.ICoverService) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		covers:  covers,
	}
}

// RegisterRoutes registers the page routes, including the short legacy paths
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", h.Home)
	router.GET("/recipes/category/:category_id/", h.Category)
	router.GET("/recipes/:id/", h.Recipe)

	router.GET("/category/:category_id/", h.Category)
	router.GET("/recipe/:id/", h.Recipe)
}

// Home lists every published recipe, newest first
func (h *RecipeHandler) Home(c *gin.Context) {
	recipes, err := h.recipes.ListPublished(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.HTML(http.StatusOK, templates.Home, templates.Page{
		Title:     "Home",
		Recipes:   h.views(c.Request.Context(), recipes),
		RequestID: middleware.RequestIDFrom(c),
	})
}

// Category lists the published recipes of one category
func (h *RecipeHandler) Category(c *gin.Context) {
	id, ok := parseID(c, "category_id")
	if !ok {
		return
	}

	recipes, err := h.recipes.ListPublishedByCategory(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.HTML(http.StatusOK, templates.Category, templates.Page{
		Title:     recipes[0].CategoryName() + " - Category",
		Recipes:   h.views(c.Request.Context(), recipes),
		RequestID: middleware.RequestIDFrom(c),
	})
}

// Recipe shows one published recipe with its preparation steps
func (h *RecipeHandler) Recipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetPublished(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	view := h.view(c.Request.Context(), *recipe)
	view.IsDetailPage = true

	c.HTML(http.StatusOK, templates.RecipeView, templates.Page{
		Title:        recipe.Title,
		Recipe:       &view,
		IsDetailPage: true,
		RequestID:    middleware.RequestIDFrom(c),
	})
}

// parseID reads a positive numeric path parameter. Anything else is a 404.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		_ = c.Error(service.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

func (h *RecipeHandler) views(ctx context.Context, recipes []model.Recipe) []templates.Recipe {
	views := make([]templates.Recipe, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, h.view(ctx, r))
	}
	return views
}

func (h *RecipeHandler) view(ctx context.Context, r model.Recipe) templates.Recipe {
	view := templates.Recipe{Recipe: r}
	if h.covers != nil {
		view.CoverURL = h.covers.CoverURL(ctx, r.CoverKey)
	}
	return view
}
