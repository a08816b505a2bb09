package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpgo/mortgage-calculator/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MORTGAGE_DATA_DIR.
const EnvPrefix = "MORTGAGE"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Settings are the application settings of the CLI, as opposed to the
// per-run scenario file.
type Settings struct {
	Logging logging.Config `mapstructure:"logging"`
	Data    DataSettings   `mapstructure:"data"`
	Cache   CacheSettings  `mapstructure:"cache"`
	Matrix  MatrixSettings `mapstructure:"matrix"`
}

type DataSettings struct {
	// Dir overrides the embedded tables. Empty uses the built-in defaults.
	Dir      string        `mapstructure:"dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheSettings struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type MatrixSettings struct {
	Workers int `mapstructure:"workers"`
}

// SettingsOptions locate the optional settings sources.
type SettingsOptions struct {
	// ConfigFile is an explicit settings file. Empty searches for
	// mortgage.yaml in the working directory.
	ConfigFile string
	// EnvFile is a dotenv file. Empty tries .env in the working directory.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	def := logging.DefaultConfig()
	v.SetDefault("logging.level", def.Level)
	v.SetDefault("logging.format", def.Format)
	v.SetDefault("logging.output", def.Output)
	v.SetDefault("logging.development", def.Development)

	v.SetDefault("data.dir", "")
	v.SetDefault("data.cache_ttl", 24*time.Hour)
	v.SetDefault("data.timeout", 5*time.Second)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "mortgage:result:")
	v.SetDefault("cache.ttl", time.Duration(0))

	v.SetDefault("matrix.workers", 10)
}

// LoadSettings merges defaults, the settings file and the environment, in
// increasing precedence. A dotenv file only fills variables that are not
// already set.
func LoadSettings(opts SettingsOptions) (*Settings, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("mortgage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (s *Settings) Validate() error {
	switch s.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if s.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want %s or %s)", s.Cache.Backend, CacheMemory, CacheRedis)
	}
	if s.Matrix.Workers <= 0 {
		return fmt.Errorf("matrix.workers must be positive")
	}
	if s.Data.Timeout <= 0 {
		return fmt.Errorf("data.timeout must be positive")
	}
	if s.Data.CacheTTL < 0 {
		return fmt.Errorf("data.cache_ttl cannot be negative")
	}
	return nil
}
