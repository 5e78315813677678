package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Env            string        `mapstructure:"ENV" validate:"required"`
	Port           string        `mapstructure:"PORT" validate:"required,numeric"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`

	APIBaseURL     string `mapstructure:"API_BASE_URL" validate:"required,url"`
	CurrentCycle   string `mapstructure:"CURRENT_CYCLE" validate:"required,numeric,len=4"`
	ResultsPerPage int    `mapstructure:"RESULTS_PER_PAGE" validate:"gte=1,lte=100"`
	DefaultRadius  int    `mapstructure:"DEFAULT_RADIUS" validate:"gte=1"`

	CacheBackend  string        `mapstructure:"CACHE_BACKEND" validate:"oneof=memory redis none"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL" validate:"gt=0"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR" validate:"required_if=CacheBackend redis"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB" validate:"gte=0"`

	GeocoderURL         string        `mapstructure:"GEOCODER_URL" validate:"required,url"`
	GeocoderUserAgent   string        `mapstructure:"GEOCODER_USER_AGENT" validate:"required"`
	GeocoderMinInterval time.Duration `mapstructure:"GEOCODER_MIN_INTERVAL" validate:"gte=0"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("API_BASE_URL", "https://api.publish-teacher-training-courses.service.gov.uk/api/v3")
	v.SetDefault("CURRENT_CYCLE", "2020")
	v.SetDefault("RESULTS_PER_PAGE", 10)
	v.SetDefault("DEFAULT_RADIUS", 50)
	v.SetDefault("CACHE_BACKEND", CacheMemory)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODER_USER_AGENT", "find-teacher-training-search")
	v.SetDefault("GEOCODER_MIN_INTERVAL", "1s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
