package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/find-teacher-training/search/internal/cache"
	"github.com/find-teacher-training/search/internal/config"
	"github.com/find-teacher-training/search/internal/geocode"
	httpapi "github.com/find-teacher-training/search/internal/http"
	"github.com/find-teacher-training/search/internal/teachertraining"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "find-search").Logger()
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore := buildCache(cfg, logger)
	defer closeStore()

	client := teachertraining.New(cfg.APIBaseURL, cfg.RequestTimeout, store, cfg.CacheTTL, logger)
	geocoder := geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderMinInterval)
	geocoder.Client = &http.Client{Timeout: cfg.RequestTimeout}

	router := httpapi.Router(cfg, client, geocoder, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("cycle", cfg.CurrentCycle).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

func buildCache(cfg config.Config, logger zerolog.Logger) (cache.Store, func()) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rdb := cache.NewRedis(cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB, DefaultTTL: cfg.CacheTTL})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect redis")
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cache")
		return rdb, func() { _ = rdb.Close() }
	case config.CacheNone:
		logger.Info().Msg("response cache disabled")
		return cache.Nop{}, func() {}
	default:
		return cache.NewMemory(cfg.CacheTTL, 2*cfg.CacheTTL+time.Minute), func() {}
	}
}
