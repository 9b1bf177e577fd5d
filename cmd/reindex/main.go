// Package main runs one index rebuild and exits.
//
// Usage:
//
//	reindex [-config path] [-seed]
//
// With -seed the bundled (or reindex.fixture_path) catalog is first upserted into Postgres.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/app/service"
	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/elasticsearch"
	"course-search-service/internal/infra/fixture"
	"course-search-service/internal/infra/postgres"
	rediscache "course-search-service/internal/infra/redis"
	"course-search-service/internal/job"
	"course-search-service/pkg/locker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	seed := flag.Bool("seed", false, "upsert the fixture catalog into Postgres before reindexing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := seedPostgres(ctx, cfg, log.Logger); err != nil {
			log.Fatal("seeding failed", zap.Error(err))
		}
	}

	redisClient, err := rediscache.NewClient(ctx, bootstrap.RedisConfig(cfg), log.Logger)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Clear the API cache after the rebuild when caching is on.
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
	}

	source, closeSource, err := bootstrap.OpenCourseSource(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to open course source", zap.Error(err))
	}
	defer closeSource()

	index := elasticsearch.New(bootstrap.ElasticsearchConfig(cfg), nil, log.Logger)
	reindexSvc := service.NewReindexService(index, source, cache, cfg.Reindex.BatchSize, log.Logger)
	reindexJob := job.NewReindexJob(
		reindexSvc,
		job.ReindexConfig{Timeout: cfg.Reindex.Timeout},
		locker.NewRedisLocker(redisClient, log.Logger),
		log.Logger,
	)

	result, err := reindexJob.RunNow(ctx)
	if err != nil {
		log.Fatal("reindex failed", zap.Error(err))
	}

	log.Info("reindex finished",
		zap.String("source", result.Source),
		zap.Int("count", result.Count),
		zap.Duration("duration", result.Duration),
	)
}

// seedPostgres upserts the fixture catalog into the courses table.
func seedPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := bootstrap.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	courses, err := fixture.New(cfg.Reindex.FixturePath, log).Load(ctx)
	if err != nil {
		return err
	}

	repo := postgres.NewRepository(db)
	if err := repo.BulkUpsert(ctx, courses); err != nil {
		return err
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	log.Info("postgres seeded", zap.Int("upserted", len(courses)), zap.Int64("total", count))

	return nil
}
