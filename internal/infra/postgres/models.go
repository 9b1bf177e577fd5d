package postgres

import (
	"time"

	"github.com/lib/pq"

	"course-search-service/internal/domain"
)

// CourseModel is the GORM model for the courses table.
type CourseModel struct {
	ID          string `gorm:"type:varchar(512);primaryKey"`
	Title       string `gorm:"type:varchar(500);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(100);index"`
	Type        string `gorm:"type:varchar(100);index"`
	GradeRange  string `gorm:"column:grade_range;type:varchar(50)"`

	// Eligibility and pricing
	MinAge int     `gorm:"default:0"`
	MaxAge int     `gorm:"default:0"`
	Price  float64 `gorm:"type:decimal(10,2);default:0"`

	// Scheduling
	NextSessionDate *time.Time
	Schedule        pq.StringArray `gorm:"type:text[]"`

	// Timestamps
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CourseModel.
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts CourseModel to domain.Course.
func (m *CourseModel) ToDomain() *domain.Course {
	var schedule []string
	if len(m.Schedule) > 0 {
		schedule = []string(m.Schedule)
	}

	return &domain.Course{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Type:            m.Type,
		GradeRange:      m.GradeRange,
		MinAge:          m.MinAge,
		MaxAge:          m.MaxAge,
		Price:           m.Price,
		NextSessionDate: m.NextSessionDate,
		Schedule:        schedule,
	}
}

// FromDomain creates a CourseModel from domain.Course.
func FromDomain(c *domain.Course) *CourseModel {
	return &CourseModel{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Type:            c.Type,
		GradeRange:      c.GradeRange,
		MinAge:          c.MinAge,
		MaxAge:          c.MaxAge,
		Price:           c.Price,
		NextSessionDate: c.NextSessionDate,
		Schedule:        pq.StringArray(c.Schedule),
	}
}

// FromDomainSlice converts a slice of domain.Course to CourseModels.
func FromDomainSlice(courses []*domain.Course) []*CourseModel {
	models := make([]*CourseModel, len(courses))
	for i, c := range courses {
		models[i] = FromDomain(c)
	}

	return models
}
