// Package templates holds the server-rendered HTML pages of the site.
package templates

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed html
var files embed.FS

var patterns = []string{
	"html/global/*.html",
	"html/recipes/partials/*.html",
	"html/recipes/pages/*.html",
	"html/errors/*.html",
}

// Page names, as passed to gin's Context.HTML
const (
	Home       = "recipes/pages/home.html"
	Category   = "recipes/pages/category.html"
	RecipeView = "recipes/pages/recipe-view.html"
	NotFound   = "errors/404.html"
	ServerErr  = "errors/500.html"
)

// Funcs are the helpers available to every page
func Funcs() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"linebreaks": func(s string) template.HTML {
			escaped := template.HTMLEscapeString(strings.TrimSpace(s))
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
		},
	}
}

// Load parses all embedded pages into one template set
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, patterns...)
}

// MustLoad is Load for program start-up, where a broken page is fatal
func MustLoad() *template.Template {
	return template.Must(Load())
}
