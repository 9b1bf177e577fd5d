// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Reindex sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Reindex       ReindexConfig       `mapstructure:"reindex"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logger        LoggerConfig        `mapstructure:"logger"`
	Sentry        SentryConfig        `mapstructure:"sentry"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Cache         CacheConfig         `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name      string        `mapstructure:"name"`
	Env       string        `mapstructure:"env"` // development, staging, production
	Port      int           `mapstructure:"port"`
	Debug     bool          `mapstructure:"debug"`
	BodyLimit int           `mapstructure:"body_limit"`
	ReadyWait time.Duration `mapstructure:"ready_timeout"`
}

// ElasticsearchConfig holds search index connection settings.
type ElasticsearchConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Index    string        `mapstructure:"index"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Refresh  string        `mapstructure:"refresh"` // true, false, wait_for
	Timeout  time.Duration `mapstructure:"timeout"`
	Retry    RetryConfig   `mapstructure:"retry"`
	CB       CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ReindexConfig holds index rebuild settings.
type ReindexConfig struct {
	OnStartup   bool          `mapstructure:"on_startup"`
	Interval    time.Duration `mapstructure:"interval"` // 0 disables periodic runs
	Timeout     time.Duration `mapstructure:"timeout"`
	Source      string        `mapstructure:"source"`       // file, postgres
	FixturePath string        `mapstructure:"fixture_path"` // empty uses the bundled catalog
	BatchSize   int           `mapstructure:"batch_size"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	Release     string  `mapstructure:"release"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for caching and distributed locking.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	CourseTTL time.Duration `mapstructure:"course_ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars (including .env) > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that have no safe fallback.
func (c *Config) Validate() error {
	var errs []error

	if c.Elasticsearch.BaseURL == "" {
		errs = append(errs, errors.New("elasticsearch.base_url is required"))
	}
	if c.Elasticsearch.Index == "" {
		errs = append(errs, errors.New("elasticsearch.index is required"))
	}
	switch c.Elasticsearch.Refresh {
	case "true", "false", "wait_for":
	default:
		errs = append(errs, fmt.Errorf("elasticsearch.refresh %q must be true, false or wait_for", c.Elasticsearch.Refresh))
	}
	switch c.Reindex.Source {
	case SourceFile, SourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("reindex.source %q must be %s or %s", c.Reindex.Source, SourceFile, SourcePostgres))
	}
	if c.Reindex.Interval < 0 {
		errs = append(errs, errors.New("reindex.interval must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "course-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.body_limit", 1024*1024)
	v.SetDefault("app.ready_timeout", "2s")

	// Elasticsearch defaults
	v.SetDefault("elasticsearch.base_url", "http://localhost:9200")
	v.SetDefault("elasticsearch.index", "courses")
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.refresh", "wait_for")
	v.SetDefault("elasticsearch.timeout", "10s")
	v.SetDefault("elasticsearch.retry.max_attempts", 3)
	v.SetDefault("elasticsearch.retry.wait_time", "500ms")
	v.SetDefault("elasticsearch.retry.max_wait_time", "3s")
	v.SetDefault("elasticsearch.circuit_breaker.max_requests", 5)
	v.SetDefault("elasticsearch.circuit_breaker.interval", "60s")
	v.SetDefault("elasticsearch.circuit_breaker.timeout", "30s")
	v.SetDefault("elasticsearch.circuit_breaker.failure_ratio", 0.5)

	// Reindex defaults
	v.SetDefault("reindex.on_startup", true)
	v.SetDefault("reindex.interval", "0s")
	v.SetDefault("reindex.timeout", "2m")
	v.SetDefault("reindex.source", SourceFile)
	v.SetDefault("reindex.fixture_path", "")
	v.SetDefault("reindex.batch_size", 500)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "courses")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.release", "")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.search_ttl", "5m")
	v.SetDefault("cache.course_ttl", "15m")
	v.SetDefault("cache.key_prefix", "course-search")
}
