// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"time"

	"course-search-service/internal/domain"
)

// Defaults applied when the query string omits a parameter.
const (
	DefaultPage    = 0
	DefaultSize    = 10
	DefaultSortBy  = domain.FieldPrice
	DefaultSortDir = "asc"
)

// ListRequest represents the query parameters for listing every course.
type ListRequest struct {
	Page int `query:"page" validate:"min=0"`
	Size int `query:"size" validate:"min=1,max=100"`
}

// NewListRequest returns a ListRequest preset with defaults, ready for QueryParser.
func NewListRequest() ListRequest {
	return ListRequest{Page: DefaultPage, Size: DefaultSize}
}

// SearchRequest represents the query parameters for a filtered course search.
// Numeric filters are pointers so that an explicit 0 stays a filter.
type SearchRequest struct {
	Category string   `query:"category" validate:"max=200"`
	Type     string   `query:"type" validate:"max=200"`
	MinAge   *int     `query:"minAge"`
	MaxAge   *int     `query:"maxAge"`
	MinPrice *float64 `query:"minPrice"`
	MaxPrice *float64 `query:"maxPrice"`

	Page    int    `query:"page" validate:"min=0"`
	Size    int    `query:"size" validate:"min=1,max=100"`
	SortBy  string `query:"sortBy" validate:"max=64"`
	SortDir string `query:"sortDir" validate:"sortdir"`
}

// NewSearchRequest returns a SearchRequest preset with defaults, ready for QueryParser.
func NewSearchRequest() SearchRequest {
	return SearchRequest{
		Page:    DefaultPage,
		Size:    DefaultSize,
		SortBy:  DefaultSortBy,
		SortDir: DefaultSortDir,
	}
}

// ToFilterSpec converts SearchRequest to domain.FilterSpec.
func (r *SearchRequest) ToFilterSpec() (domain.FilterSpec, error) {
	pageable, err := domain.NewPageable(r.Page, r.Size, r.SortBy, r.SortDir)
	if err != nil {
		return domain.FilterSpec{}, err
	}

	return domain.FilterSpec{
		Category: r.Category,
		Type:     r.Type,
		MinAge:   r.MinAge,
		MaxAge:   r.MaxAge,
		MinPrice: r.MinPrice,
		MaxPrice: r.MaxPrice,
		Pageable: pageable,
	}, nil
}

// CourseRequest represents a course document in a write request body.
// The id is checked by the service so that an empty id maps to INVALID_ARGUMENT.
type CourseRequest struct {
	ID              string     `json:"id" validate:"max=512"`
	Title           string     `json:"title" validate:"max=500"`
	Description     string     `json:"description"`
	Category        string     `json:"category" validate:"max=200"`
	Type            string     `json:"type" validate:"max=200"`
	GradeRange      string     `json:"gradeRange" validate:"max=100"`
	MinAge          int        `json:"minAge"`
	MaxAge          int        `json:"maxAge"`
	Price           float64    `json:"price"`
	NextSessionDate *time.Time `json:"nextSessionDate"`
	Schedule        []string   `json:"schedule"`
}

// ToDomain converts CourseRequest to domain.Course.
func (r *CourseRequest) ToDomain() *domain.Course {
	return &domain.Course{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Type:            r.Type,
		GradeRange:      r.GradeRange,
		MinAge:          r.MinAge,
		MaxAge:          r.MaxAge,
		Price:           r.Price,
		NextSessionDate: r.NextSessionDate,
		Schedule:        r.Schedule,
	}
}
