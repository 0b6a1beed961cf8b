package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported flight sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceHTTP     = "http"
)

// Supported result caches.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// Config holds all runtime settings, read from the environment and an optional .env file.
type Config struct {
	Env                 string        `mapstructure:"ENV"`
	Port                string        `mapstructure:"PORT"`
	FlightsSource       string        `mapstructure:"FLIGHTS_SOURCE"`
	FlightsCSV          string        `mapstructure:"FLIGHTS_CSV"`
	FlightsURL          string        `mapstructure:"FLIGHTS_URL"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	MaxLayoverHours     int           `mapstructure:"MAX_LAYOVER_HOURS"`
	ReturnSearchWorkers int           `mapstructure:"RETURN_SEARCH_WORKERS"`
	CacheBackend        string        `mapstructure:"CACHE_BACKEND"`
	CacheTTL            time.Duration `mapstructure:"CACHE_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

var defaults = map[string]any{
	"ENV":                   "development",
	"PORT":                  "8080",
	"FLIGHTS_SOURCE":        SourceCSV,
	"FLIGHTS_CSV":           "data/flights.csv",
	"FLIGHTS_URL":           "",
	"DATABASE_URL":          "",
	"MAX_LAYOVER_HOURS":     6,
	"RETURN_SEARCH_WORKERS": 4,
	"CACHE_BACKEND":         CacheMemory,
	"CACHE_TTL":             "5m",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
}

// Load reads .env when present, then environment variables over defaults.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.FlightsSource = strings.ToLower(strings.TrimSpace(cfg.FlightsSource))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxLayoverHours < 1 {
		return errors.New("MAX_LAYOVER_HOURS must be at least 1")
	}
	if c.ReturnSearchWorkers < 1 {
		return errors.New("RETURN_SEARCH_WORKERS must be at least 1")
	}

	switch c.FlightsSource {
	case SourceCSV:
		if strings.TrimSpace(c.FlightsCSV) == "" {
			return errors.New("FLIGHTS_CSV is required for the csv source")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres source")
		}
	case SourceHTTP:
		if strings.TrimSpace(c.FlightsURL) == "" {
			return errors.New("FLIGHTS_URL is required for the http source")
		}
	default:
		return fmt.Errorf("unknown FLIGHTS_SOURCE %q", c.FlightsSource)
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required for the redis cache")
		}
	case CachePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres cache")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	return nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
