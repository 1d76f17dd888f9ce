// Package seed loads demo categories and recipes.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/pageza/recipes/backend/internal/model"
	"github.com/pageza/recipes/backend/internal/service"
)

//go:embed recipes.yaml
var defaultData []byte

type Data struct {
	Categories []CategoryData `yaml:"categories"`
}

type CategoryData struct {
	Name    string       `yaml:"name"`
	Recipes []RecipeData `yaml:"recipes"`
}

type RecipeData struct {
	Title               string `yaml:"title"`
	Description         string `yaml:"description"`
	PreparationTime     int    `yaml:"preparation_time"`
	PreparationTimeUnit string `yaml:"preparation_time_unit"`
	Servings            int    `yaml:"servings"`
	ServingsUnit        string `yaml:"servings_unit"`
	Steps               string `yaml:"steps"`
	StepsHTML           bool   `yaml:"steps_html"`
	Published           bool   `yaml:"published"`
	CoverKey            string `yaml:"cover_key"`
}

// Parse reads seed data in YAML form
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Default returns the bundled demo data
func Default() *Data {
	data, err := Parse(defaultData)
	if err != nil {
		panic(err)
	}
	return data
}

// Result counts what Run created
type Result struct {
	Categories int
	Recipes    int
	Published  int
}

// Run creates every category and recipe in data through recipes
func Run(ctx context.Context, recipes service.IRecipeService, data *Data, log logrus.FieldLogger) (Result, error) {
	var res Result
	for _, c := range data.Categories {
		category, err := recipes.CreateCategory(ctx, c.Name)
		if err != nil {
			return res, err
		}
		res.Categories++

		for _, r := range c.Recipes {
			recipe := &model.Recipe{
				Title:                  r.Title,
				Description:            r.Description,
				PreparationTime:        r.PreparationTime,
				PreparationTimeUnit:    r.PreparationTimeUnit,
				Servings:               r.Servings,
				ServingsUnit:           r.ServingsUnit,
				PreparationSteps:       r.Steps,
				PreparationStepsIsHTML: r.StepsHTML,
				IsPublished:            r.Published,
				CoverKey:               r.CoverKey,
				CategoryID:             &category.ID,
			}
			if _, err := recipes.CreateRecipe(ctx, recipe); err != nil {
				return res, fmt.Errorf("recipe %q: %w", r.Title, err)
			}
			res.Recipes++
			if r.Published {
				res.Published++
			}

			log.WithFields(logrus.Fields{
				"category":  category.Name,
				"recipe":    recipe.Title,
				"published": recipe.IsPublished,
			}).Info("seeded recipe")
		}
	}
	return res, nil
}
