package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(SettingsOptions{})
	require.NoError(t, err)

	assert.Equal(t, "warn", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, CacheMemory, s.Cache.Backend)
	assert.Equal(t, 24*time.Hour, s.Data.CacheTTL)
	assert.Equal(t, 5*time.Second, s.Data.Timeout)
	assert.Equal(t, 10, s.Matrix.Workers)
	assert.Empty(t, s.Data.Dir)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	path := writeFile(t, "mortgage.yaml", `
logging:
  level: info
  format: json
data:
  dir: /srv/mortgage-data
  timeout: 2s
matrix:
  workers: 4
cache:
  backend: redis
  redis_addr: cache:6379
`)
	t.Setenv("MORTGAGE_MATRIX_WORKERS", "8")
	t.Setenv("MORTGAGE_DATA_CACHE_TTL", "1h")

	s, err := LoadSettings(SettingsOptions{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, "/srv/mortgage-data", s.Data.Dir)
	assert.Equal(t, 2*time.Second, s.Data.Timeout)
	assert.Equal(t, time.Hour, s.Data.CacheTTL)
	assert.Equal(t, 8, s.Matrix.Workers)
	assert.Equal(t, CacheRedis, s.Cache.Backend)
	assert.Equal(t, "cache:6379", s.Cache.RedisAddr)
}

func TestLoadSettings_DotEnvDoesNotOverrideEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "MORTGAGE_LOGGING_LEVEL=debug\nMORTGAGE_CACHE_PREFIX=dotenv:\n")
	t.Setenv("MORTGAGE_CACHE_PREFIX", "env:")
	t.Cleanup(func() { _ = os.Unsetenv("MORTGAGE_LOGGING_LEVEL") })

	s, err := LoadSettings(SettingsOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "env:", s.Cache.Prefix)
}

func TestLoadSettings_Errors(t *testing.T) {
	_, err := LoadSettings(SettingsOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "error reading settings")

	_, err = LoadSettings(SettingsOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.ErrorContains(t, err, "failed to load env file")

	t.Setenv("MORTGAGE_CACHE_BACKEND", "memcached")
	_, err = LoadSettings(SettingsOptions{})
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestSettingsValidate(t *testing.T) {
	base := func() Settings {
		return Settings{
			Data:   DataSettings{Timeout: time.Second},
			Cache:  CacheSettings{Backend: CacheMemory},
			Matrix: MatrixSettings{Workers: 2},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"redis without addr", func(s *Settings) { s.Cache.Backend = CacheRedis }, "redis_addr is required"},
		{"zero workers", func(s *Settings) { s.Matrix.Workers = 0 }, "matrix.workers"},
		{"zero timeout", func(s *Settings) { s.Data.Timeout = 0 }, "data.timeout"},
		{"negative ttl", func(s *Settings) { s.Data.CacheTTL = -time.Minute }, "data.cache_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
