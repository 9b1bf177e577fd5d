package domain

import (
	"context"
	"time"
)

// CourseIndex is the search engine capability used by the course service.
// Implementations: internal/infra/elasticsearch/client.go
type CourseIndex interface {
	// Search returns one window of hits for a conjunctive query plus the total match count.
	Search(ctx context.Context, query IndexQuery) (*HitPage, error)

	// Get retrieves a course by id. Returns nil, nil when the document does not exist.
	Get(ctx context.Context, id string) (*Course, error)

	// Exists reports whether a course with the id is indexed.
	Exists(ctx context.Context, id string) (bool, error)

	// Put creates or fully replaces the course keyed by its id.
	Put(ctx context.Context, course *Course) error

	// Ping verifies the engine is reachable.
	Ping(ctx context.Context) error
}

// IndexAdmin manages the index lifecycle for the reindex routine.
// Implementations: internal/infra/elasticsearch/admin.go
type IndexAdmin interface {
	IndexExists(ctx context.Context) (bool, error)
	DeleteIndex(ctx context.Context) error

	// CreateIndex creates the index with the course mapping.
	CreateIndex(ctx context.Context) error

	// BulkPut indexes the courses and returns how many were accepted.
	BulkPut(ctx context.Context, courses []*Course) (int, error)
}

// CourseSource supplies the catalog loaded by the reindex routine.
// Implementations: internal/infra/fixture, internal/infra/postgres
type CourseSource interface {
	// Name identifies the source in logs and results.
	Name() string

	// Load returns the full catalog.
	Load(ctx context.Context) ([]*Course, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
