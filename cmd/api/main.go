// Package main is the entry point for the course-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"course-search-service/internal/app/bootstrap"
	"course-search-service/internal/app/service"
	"course-search-service/internal/config"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/elasticsearch"
	rediscache "course-search-service/internal/infra/redis"
	"course-search-service/internal/job"
	"course-search-service/internal/metrics"
	"course-search-service/internal/transport/httpserver"
	"course-search-service/internal/validator"
	"course-search-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting course-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("index", cfg.Elasticsearch.Index),
	)

	ctx := context.Background()

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Search index client
	index := elasticsearch.New(bootstrap.ElasticsearchConfig(cfg), m, log.Logger)

	// Connect to Redis (distributed lock, optional cache)
	redisClient, err := rediscache.NewClient(ctx, bootstrap.RedisConfig(cfg), log.Logger)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("search_ttl", cfg.Cache.SearchTTL),
			zap.Duration("course_ttl", cfg.Cache.CourseTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Catalog source for reindexing
	source, closeSource, err := bootstrap.OpenCourseSource(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to open course source", zap.Error(err))
	}
	defer closeSource()

	// Create services
	courseSvc := service.NewCourseService(index, cache, service.CacheTTL{
		Search: cfg.Cache.SearchTTL,
		Course: cfg.Cache.CourseTTL,
	}, m, log.Logger)
	reindexSvc := service.NewReindexService(index, source, cache, cfg.Reindex.BatchSize, log.Logger)

	// Reindex job with distributed locking
	reindexJob := job.NewReindexJob(
		reindexSvc,
		job.ReindexConfig{
			Interval:  cfg.Reindex.Interval,
			Timeout:   cfg.Reindex.Timeout,
			OnStartup: cfg.Reindex.OnStartup,
		},
		locker.NewRedisLocker(redisClient, log.Logger),
		log.Logger,
	)
	reindexJob.Start()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    cfg.App.BodyLimit,
			ReadyTimeout: cfg.App.ReadyWait,
		},
		httpserver.Deps{
			Courses:   courseSvc,
			Reindexer: reindexJob,
			Index:     courseSvc,
			Validator: validator.New(),
			Metrics:   m,
			Gatherer:  reg,
		},
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		reindexJob.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
