package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipes/backend/config"
	"github.com/pageza/recipes/backend/internal/api"
	"github.com/pageza/recipes/backend/internal/middleware"
	"github.com/pageza/recipes/backend/internal/service"
	"github.com/pageza/recipes/backend/internal/templates"
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      logrus.FieldLogger
	Recipes  service.IRecipeService
	Covers   service.ICoverService
	Redis    *redis.Client // optional, enables rate limiting
	Registry *prometheus.Registry
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(templates.MustLoad())

	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Log),
		middleware.ErrorHandler(deps.Log),
		middleware.CORS(deps.Config.CORSOrigins),
	)

	if deps.Registry != nil {
		router.Use(middleware.NewMetrics(deps.Registry).Handler())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	health := api.NewHealthHandler(deps.DB)
	router.GET("/health", health.HealthCheck)

	// Pages
	pages := router.Group("")
	if deps.Redis != nil && deps.Config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window: deps.Config.RateLimitWindow,
			Limit:  deps.Config.RateLimit,
		}, deps.Log)
		pages.Use(limiter.Middleware())
	}
	api.NewRecipeHandler(deps.Recipes, deps.Covers).RegisterRoutes(pages)

	router.NoRoute(middleware.NotFound)

	return router
}
