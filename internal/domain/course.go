// Package domain contains the course catalog entities and the search contract.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// Index field names shared by the query builder, the sort resolver and the mapping.
const (
	FieldID              = "id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldCategory        = "category"
	FieldType            = "type"
	FieldGradeRange      = "gradeRange"
	FieldMinAge          = "minAge"
	FieldMaxAge          = "maxAge"
	FieldPrice           = "price"
	FieldNextSessionDate = "nextSessionDate"
)

// Course is a catalog entry as stored in the search index.
// JSON names are the index field names.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Filterable text attributes (indexed as text + keyword)
	Category string `json:"category"`
	Type     string `json:"type"`

	// Eligibility and pricing. MinAge <= MaxAge is assumed, never enforced.
	GradeRange string  `json:"gradeRange,omitempty"`
	MinAge     int     `json:"minAge"`
	MaxAge     int     `json:"maxAge"`
	Price      float64 `json:"price"`

	// Pass-through scheduling data
	NextSessionDate *time.Time `json:"nextSessionDate,omitempty"`
	Schedule        []string   `json:"schedule,omitempty"`
}

// HasID reports whether the course carries a usable document key.
func (c *Course) HasID() bool {
	return c != nil && c.ID != ""
}
