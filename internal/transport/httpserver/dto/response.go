package dto

import (
	"time"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
)

// CourseResponse represents a single course in the response.
type CourseResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Type        string `json:"type"`

	// Eligibility and pricing
	GradeRange string  `json:"gradeRange,omitempty"`
	MinAge     int     `json:"minAge"`
	MaxAge     int     `json:"maxAge"`
	Price      float64 `json:"price"`

	// Scheduling
	NextSessionDate string   `json:"nextSessionDate,omitempty"`
	Schedule        []string `json:"schedule,omitempty"`
}

// FromDomainCourse converts domain.Course to CourseResponse.
func FromDomainCourse(c *domain.Course) CourseResponse {
	resp := CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Type:        c.Type,
		GradeRange:  c.GradeRange,
		MinAge:      c.MinAge,
		MaxAge:      c.MaxAge,
		Price:       c.Price,
		Schedule:    c.Schedule,
	}
	if c.NextSessionDate != nil {
		resp.NextSessionDate = c.NextSessionDate.Format(time.RFC3339)
	}

	return resp
}

// PageResponse represents one page of courses plus pagination metadata.
type PageResponse struct {
	Content          []CourseResponse `json:"content"`
	Page             int              `json:"page"`
	Size             int              `json:"size"`
	TotalElements    int64            `json:"totalElements"`
	TotalPages       int              `json:"totalPages"`
	NumberOfElements int              `json:"numberOfElements"`
	First            bool             `json:"first"`
	Last             bool             `json:"last"`
}

// FromDomainPage converts domain.Page to PageResponse.
func FromDomainPage(p *domain.Page) PageResponse {
	content := make([]CourseResponse, len(p.Content))
	for i, c := range p.Content {
		content[i] = FromDomainCourse(c)
	}

	return PageResponse{
		Content:          content,
		Page:             p.Page,
		Size:             p.Size,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
	}
}

// ReindexResponse represents the result of a reindex run.
type ReindexResponse struct {
	Source   string `json:"source"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
}

// FromReindexResult converts service.ReindexResult to ReindexResponse.
func FromReindexResult(r *service.ReindexResult) ReindexResponse {
	return ReindexResponse{
		Source:   r.Source,
		Count:    r.Count,
		Duration: r.Duration.String(),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
