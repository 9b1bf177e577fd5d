// Package fixture loads the course catalog from a JSON file.
package fixture

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
)

//go:embed sample-courses.json
var sampleCourses []byte

// Source implements domain.CourseSource over a JSON array of courses.
// Courses without an id are assigned a random one.
type Source struct {
	path   string
	logger *zap.Logger
}

// New creates a fixture source. An empty path selects the bundled sample catalog.
func New(path string, logger *zap.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Name returns the source identifier.
func (s *Source) Name() string {
	return "fixture"
}

// Load reads and decodes the catalog.
func (s *Source) Load(ctx context.Context) ([]*domain.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := sampleCourses
	origin := "embedded"
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("reading fixture: %w", err)
		}
		data = raw
		origin = s.path
	}

	courses, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding fixture %s: %w", origin, err)
	}

	s.logger.Info("fixture loaded",
		zap.String("origin", origin),
		zap.Int("count", len(courses)),
	)

	return courses, nil
}

// Decode parses a JSON array of courses, assigning ids where missing.
func Decode(data []byte) ([]*domain.Course, error) {
	var courses []*domain.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, err
	}

	out := courses[:0]
	for _, c := range courses {
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		out = append(out, c)
	}

	return out, nil
}
