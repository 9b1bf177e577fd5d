package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/domain"
)

const defaultBatchSize = 500

// ReindexService rebuilds the course index from a catalog source.
type ReindexService struct {
	admin     domain.IndexAdmin
	source    domain.CourseSource
	cache     domain.Cache
	batchSize int
	logger    *zap.Logger
}

// NewReindexService creates a new ReindexService. cache may be nil.
func NewReindexService(
	admin domain.IndexAdmin,
	source domain.CourseSource,
	cache domain.Cache,
	batchSize int,
	logger *zap.Logger,
) *ReindexService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &ReindexService{
		admin:     admin,
		source:    source,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ReindexResult holds the result of a reindex run.
type ReindexResult struct {
	Source   string        `json:"source"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// Reindex drops and recreates the index, then bulk-loads the catalog.
// The catalog is loaded and checked before the index is touched.
func (s *ReindexService) Reindex(ctx context.Context) (*ReindexResult, error) {
	start := time.Now()
	result := &ReindexResult{Source: s.source.Name()}

	s.logger.Info("starting reindex", zap.String("source", result.Source))

	courses, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading courses from %s: %w", result.Source, err)
	}
	for i, c := range courses {
		if !c.HasID() {
			return nil, fmt.Errorf("%w: course #%d from %s has no id", domain.ErrInvalidArgument, i, result.Source)
		}
	}

	exists, err := s.admin.IndexExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking index: %w", err)
	}
	if exists {
		if err := s.admin.DeleteIndex(ctx); err != nil {
			return nil, fmt.Errorf("deleting index: %w", err)
		}
	}

	if err := s.admin.CreateIndex(ctx); err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	for offset := 0; offset < len(courses); offset += s.batchSize {
		end := min(offset+s.batchSize, len(courses))

		n, err := s.admin.BulkPut(ctx, courses[offset:end])
		result.Count += n
		if err != nil {
			result.Duration = time.Since(start)
			s.logger.Error("bulk indexing failed",
				zap.Int("batch_offset", offset),
				zap.Int("indexed", result.Count),
				zap.Error(err),
			)

			return result, fmt.Errorf("indexing batch at %d: %w", offset, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn("cache invalidation after reindex failed", zap.Error(err))
		}
	}

	result.Duration = time.Since(start)

	s.logger.Info("reindex completed",
		zap.String("source", result.Source),
		zap.Int("count", result.Count),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}
