package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceCSV, cfg.FlightsSource)
	assert.Equal(t, 6, cfg.MaxLayoverHours)
	assert.Equal(t, 4, cfg.ReturnSearchWorkers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")
	t.Setenv("FLIGHTS_SOURCE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/flights")
	t.Setenv("MAX_LAYOVER_HOURS", "12")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("CACHE_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, SourcePostgres, cfg.FlightsSource)
	assert.Equal(t, 12, cfg.MaxLayoverHours)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestValidate(t *testing.T) {
	base := Config{FlightsSource: SourceCSV, FlightsCSV: "f.csv", MaxLayoverHours: 6, ReturnSearchWorkers: 1, CacheBackend: CacheMemory}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"layover":        func(c *Config) { c.MaxLayoverHours = 0 },
		"workers":        func(c *Config) { c.ReturnSearchWorkers = 0 },
		"unknown source": func(c *Config) { c.FlightsSource = "ftp" },
		"csv path":       func(c *Config) { c.FlightsCSV = "" },
		"postgres url":   func(c *Config) { c.FlightsSource = SourcePostgres },
		"http url":       func(c *Config) { c.FlightsSource = SourceHTTP },
		"unknown cache":  func(c *Config) { c.CacheBackend = "disk" },
		"redis addr":     func(c *Config) { c.CacheBackend = CacheRedis },
		"postgres cache": func(c *Config) { c.CacheBackend = CachePostgres },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("FLIGHT_TEST_KEY", "value")
	assert.Equal(t, "value", Get("FLIGHT_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("FLIGHT_TEST_MISSING", "fallback"))
}
