package templates

import "github.com/pageza/recipes/backend/internal/model"

// Recipe is a recipe as a page renders it
type Recipe struct {
	model.Recipe
	CoverURL     string
	IsDetailPage bool
}

// Page is the data every page template receives
type Page struct {
	Title        string
	Recipes      []Recipe
	Recipe       *Recipe
	IsDetailPage bool
	RequestID    string
}
