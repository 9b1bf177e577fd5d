package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-search-service/internal/domain"
)

// Repository stores the course catalog in PostgreSQL and serves it as a domain.CourseSource.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Name returns the source identifier.
func (r *Repository) Name() string {
	return "postgres"
}

// Load returns the full catalog ordered by id.
func (r *Repository) Load(ctx context.Context) ([]*domain.Course, error) {
	var models []CourseModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	courses := make([]*domain.Course, len(models))
	for i := range models {
		courses[i] = models[i].ToDomain()
	}

	return courses, nil
}

// BulkUpsert creates or fully replaces the courses keyed by id.
func (r *Repository) BulkUpsert(ctx context.Context, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	for _, c := range courses {
		if !c.HasID() {
			return fmt.Errorf("%w: course id is required", domain.ErrInvalidArgument)
		}
	}

	now := time.Now().UTC()
	models := FromDomainSlice(courses)
	for _, m := range models {
		m.UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "type", "grade_range",
			"min_age", "max_age", "price", "next_session_date", "schedule",
			"updated_at",
		}),
	}).CreateInBatches(models, 100).Error

	if err != nil {
		return fmt.Errorf("bulk upserting courses: %w", err)
	}

	return nil
}

// Count returns the number of stored courses.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CourseModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}

	return count, nil
}
