package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/find-teacher-training/search/internal/config"
	"github.com/find-teacher-training/search/internal/geocode"
	"github.com/find-teacher-training/search/internal/http/handlers"
	"github.com/find-teacher-training/search/internal/http/middleware"
	"github.com/find-teacher-training/search/internal/service"
	"github.com/find-teacher-training/search/internal/teachertraining"

	_ "github.com/find-teacher-training/search/docs"
)

func Router(cfg config.Config, client *teachertraining.Client, geocoder geocode.Geocoder, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		ResultsView: &service.ResultsService{
			Courses:  client,
			Subjects: client,
			Cycle:    cfg.CurrentCycle,
			PerPage:  cfg.ResultsPerPage,
			Logger:   logger,
		},
		Providers: &service.ProviderFlow{
			Suggestions: client,
			Cycle:       cfg.CurrentCycle,
			Logger:      logger,
		},
		Locations: &service.LocationFlow{
			Geocoder:      geocoder,
			DefaultRadius: cfg.DefaultRadius,
			Logger:        logger,
		},
		Suggestions: client,
		Upstream:    client,
		Validator:   validator.New(),
		Cycle:       cfg.CurrentCycle,
		Logger:      logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", h.Root)
	r.GET("/start", h.StartWizard)
	r.GET("/results", h.Results)
	filters := r.Group("/results/filter")
	{
		filters.GET("/provider", h.ProviderFilter)
		filters.GET("/location", h.LocationFilter)
		filters.GET("/location/submit", h.LocationSubmit)
	}
	r.GET("/provider-suggestions", h.ProviderSuggestions)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
