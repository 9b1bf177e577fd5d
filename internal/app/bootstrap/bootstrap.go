// Package bootstrap maps configuration onto the infrastructure constructors shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/elasticsearch"
	"course-search-service/internal/infra/fixture"
	"course-search-service/internal/infra/postgres"
	"course-search-service/internal/infra/postgres/migrations"
	rediscache "course-search-service/internal/infra/redis"
	"course-search-service/internal/logger"
)

// NewLogger builds the application logger from config.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
		Sentry: logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	})
}

// ElasticsearchConfig returns the index client settings.
func ElasticsearchConfig(cfg *config.Config) elasticsearch.ClientConfig {
	c := cfg.Elasticsearch

	return elasticsearch.ClientConfig{
		BaseURL:  c.BaseURL,
		Index:    c.Index,
		Username: c.Username,
		Password: c.Password,
		Refresh:  c.Refresh,
		Timeout:  c.Timeout,
		Retry: elasticsearch.RetryConfig{
			MaxAttempts: c.Retry.MaxAttempts,
			WaitTime:    c.Retry.WaitTime,
			MaxWaitTime: c.Retry.MaxWaitTime,
		},
		CB: elasticsearch.CBConfig{
			MaxRequests:  c.CB.MaxRequests,
			Interval:     c.CB.Interval,
			Timeout:      c.CB.Timeout,
			FailureRatio: c.CB.FailureRatio,
		},
	}
}

// RedisConfig returns the Redis connection settings.
func RedisConfig(cfg *config.Config) rediscache.Config {
	return rediscache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// PostgresConfig returns the catalog database settings.
func PostgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		Name:         cfg.Database.Name,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	}
}

// OpenDatabase connects to the catalog database and applies migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := postgres.NewConnection(ctx, PostgresConfig(cfg), log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(db); err != nil {
		_ = postgres.Close(db)
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations completed")

	return db, nil
}

// OpenCourseSource opens the configured reindex source.
// Postgres is connected only when it is the source. The returned func releases it.
func OpenCourseSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.CourseSource, func(), error) {
	switch cfg.Reindex.Source {
	case config.SourcePostgres:
		db, err := OpenDatabase(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}

		return postgres.NewRepository(db), func() { _ = postgres.Close(db) }, nil
	case config.SourceFile:
		return fixture.New(cfg.Reindex.FixturePath, log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown reindex source %q", cfg.Reindex.Source)
	}
}
