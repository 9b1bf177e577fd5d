// Package service provides application use cases.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
)

const (
	searchKeyPrefix = "search:"
	courseKeyPrefix = "course:"
)

// CacheTTL holds the cache lifetimes per entry kind.
type CacheTTL struct {
	Search time.Duration
	Course time.Duration
}

// CourseService handles course search, retrieval and writes.
// The cache is optional; cache failures are logged and never fail a request.
type CourseService struct {
	index   domain.CourseIndex
	cache   domain.Cache
	ttl     CacheTTL
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCourseService creates a new CourseService. cache may be nil.
func NewCourseService(
	index domain.CourseIndex,
	cache domain.Cache,
	ttl CacheTTL,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		index:   index,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// ListAll returns one page of all courses in the index's natural order.
func (s *CourseService) ListAll(ctx context.Context, page, size int) (*domain.Page, error) {
	pageable, err := domain.NewPageable(page, size, "", "")
	if err != nil {
		return nil, err
	}

	return s.Search(ctx, domain.FilterSpec{Pageable: pageable})
}

// Search returns one page of courses matching every present filter.
func (s *CourseService) Search(ctx context.Context, spec domain.FilterSpec) (*domain.Page, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	query := spec.IndexQuery()

	s.logger.Debug("searching courses",
		zap.String("category", spec.Category),
		zap.String("type", spec.Type),
		zap.Int("clauses", len(query.Clauses)),
		zap.Int("page", spec.Pageable.Page),
		zap.Int("size", spec.Pageable.Size),
		zap.String("sort_by", spec.Pageable.Sort.Field),
	)

	key, keyErr := searchKey(query)
	if keyErr == nil {
		var cached domain.Page
		if s.cacheGet(ctx, "search", key, &cached) {
			return &cached, nil
		}
	}

	hits, err := s.index.Search(ctx, query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		return nil, err
	}

	page := domain.NewPage(hits.Courses, spec.Pageable, hits.Total)

	if keyErr == nil {
		s.cacheSet(ctx, key, page, s.ttl.Search)
	}

	s.logger.Debug("search completed",
		zap.Int64("total", page.TotalElements),
		zap.Int("count", page.NumberOfElements),
	)

	return page, nil
}

// GetByID retrieves a course by id. Returns nil, nil when the course does not exist.
func (s *CourseService) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: course id is required", domain.ErrInvalidArgument)
	}

	key := courseKeyPrefix + id
	var cached domain.Course
	if s.cacheGet(ctx, "course", key, &cached) {
		return &cached, nil
	}

	course, err := s.index.Get(ctx, id)
	if err != nil {
		s.logger.Error("get by id failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	s.cacheSet(ctx, key, course, s.ttl.Course)

	return course, nil
}

// Upsert creates the course or fully replaces an existing one with the same id.
func (s *CourseService) Upsert(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if !course.HasID() {
		return nil, fmt.Errorf("%w: course id is required", domain.ErrInvalidArgument)
	}

	if err := s.index.Put(ctx, course); err != nil {
		s.logger.Error("upsert failed", zap.String("id", course.ID), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)

	s.logger.Info("course saved", zap.String("id", course.ID))

	return course, nil
}

// Update replaces an existing course. It fails with ErrNotFound instead of creating one.
func (s *CourseService) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if !course.HasID() {
		return nil, fmt.Errorf("%w: course id is required", domain.ErrInvalidArgument)
	}

	exists, err := s.index.Exists(ctx, course.ID)
	if err != nil {
		s.logger.Error("existence check failed", zap.String("id", course.ID), zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: course %q does not exist", domain.ErrNotFound, course.ID)
	}

	if err := s.index.Put(ctx, course); err != nil {
		s.logger.Error("update failed", zap.String("id", course.ID), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)

	s.logger.Info("course updated", zap.String("id", course.ID))

	return course, nil
}

// Ping reports whether the index is reachable.
func (s *CourseService) Ping(ctx context.Context) error {
	return s.index.Ping(ctx)
}

func (s *CourseService) cacheGet(ctx context.Context, kind, key string, dst any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		s.metrics.ObserveCache(kind, false)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		s.metrics.ObserveCache(kind, false)

		return false
	}

	s.metrics.ObserveCache(kind, true)

	return true
}

func (s *CourseService) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	// Errors are logged by the cache.
	_ = s.cache.Set(ctx, key, data, ttl)
}

// invalidate drops every cached page and course after a write.
func (s *CourseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// searchKey derives a stable cache key from the executed query.
func searchKey(q domain.IndexQuery) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)

	return searchKeyPrefix + hex.EncodeToString(sum[:]), nil
}
