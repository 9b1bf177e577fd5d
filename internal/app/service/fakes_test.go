package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"course-search-service/internal/domain"
)

// fakeIndex is an in-memory CourseIndex that evaluates clauses the way the engine does.
type fakeIndex struct {
	mu       sync.Mutex
	docs     map[string]*domain.Course
	order    []string
	puts     int
	searches int
	err      error
}

func newFakeIndex(courses ...*domain.Course) *fakeIndex {
	idx := &fakeIndex{docs: make(map[string]*domain.Course)}
	for _, c := range courses {
		idx.store(c)
	}

	return idx
}

func (f *fakeIndex) store(c *domain.Course) {
	if _, ok := f.docs[c.ID]; !ok {
		f.order = append(f.order, c.ID)
	}
	cp := *c
	f.docs[c.ID] = &cp
}

func (f *fakeIndex) Search(_ context.Context, q domain.IndexQuery) (*domain.HitPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.err != nil {
		return nil, f.err
	}

	var matched []*domain.Course
	for _, id := range f.order {
		c := f.docs[id]
		if matchesAll(c, q.Clauses) {
			cp := *c
			matched = append(matched, &cp)
		}
	}

	if !q.Sort.IsUnsorted() {
		slices.SortStableFunc(matched, func(a, b *domain.Course) int {
			r := compareField(a, b, q.Sort.Field)
			if q.Sort.Direction == domain.SortDesc {
				return -r
			}
			return r
		})
	}

	total := int64(len(matched))
	start := min(q.Offset, len(matched))
	end := min(start+q.Limit, len(matched))

	return &domain.HitPage{Courses: matched[start:end], Total: total}, nil
}

func (f *fakeIndex) Get(_ context.Context, id string) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *c

	return &cp, nil
}

func (f *fakeIndex) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.docs[id]

	return ok, nil
}

func (f *fakeIndex) Put(_ context.Context, c *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.puts++
	f.store(c)

	return nil
}

func (f *fakeIndex) Ping(context.Context) error {
	return f.err
}

func matchesAll(c *domain.Course, clauses []domain.Clause) bool {
	for _, cl := range clauses {
		switch cl.Kind {
		case domain.ClauseContains:
			if !strings.Contains(strings.ToLower(textField(c, cl.Field)), cl.Text) {
				return false
			}
		case domain.ClauseAtLeast:
			if numberField(c, cl.Field) < cl.Number {
				return false
			}
		case domain.ClauseAtMost:
			if numberField(c, cl.Field) > cl.Number {
				return false
			}
		}
	}

	return true
}

func textField(c *domain.Course, field string) string {
	switch field {
	case domain.FieldCategory:
		return c.Category
	case domain.FieldType:
		return c.Type
	case domain.FieldTitle:
		return c.Title
	}

	return ""
}

func numberField(c *domain.Course, field string) float64 {
	switch field {
	case domain.FieldMinAge:
		return float64(c.MinAge)
	case domain.FieldMaxAge:
		return float64(c.MaxAge)
	case domain.FieldPrice:
		return c.Price
	}

	return 0
}

func compareField(a, b *domain.Course, field string) int {
	switch field {
	case domain.FieldPrice, domain.FieldMinAge, domain.FieldMaxAge:
		return cmp.Compare(numberField(a, field), numberField(b, field))
	default:
		return cmp.Compare(textField(a, field), textField(b, field))
	}
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	clears  int
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	return c.entries[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = value

	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)

	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	if c.err != nil {
		return c.err
	}
	c.entries = make(map[string][]byte)

	return nil
}

// fakeAdmin records index lifecycle calls.
type fakeAdmin struct {
	exists    bool
	calls     []string
	batches   [][]*domain.Course
	bulkErrAt int // 1-based batch number that fails, 0 for none
	createErr error
}

func (a *fakeAdmin) IndexExists(context.Context) (bool, error) {
	a.calls = append(a.calls, "exists")
	return a.exists, nil
}

func (a *fakeAdmin) DeleteIndex(context.Context) error {
	a.calls = append(a.calls, "delete")
	a.exists = false

	return nil
}

func (a *fakeAdmin) CreateIndex(context.Context) error {
	a.calls = append(a.calls, "create")
	if a.createErr != nil {
		return a.createErr
	}
	a.exists = true

	return nil
}

func (a *fakeAdmin) BulkPut(_ context.Context, courses []*domain.Course) (int, error) {
	a.calls = append(a.calls, "bulk")
	a.batches = append(a.batches, courses)
	if a.bulkErrAt == len(a.batches) {
		return 0, &domain.IndexError{Op: "bulk", Kind: domain.ErrIndexRejected, Reason: "mapper_parsing_exception"}
	}

	return len(courses), nil
}

// fakeSource returns a fixed catalog.
type fakeSource struct {
	courses []*domain.Course
	err     error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Load(context.Context) ([]*domain.Course, error) {
	return s.courses, s.err
}

var errBoom = errors.New("boom")

func catalog() []*domain.Course {
	return []*domain.Course{
		{ID: "c-1", Title: "Junior Robotics", Category: "Science", Type: "Club", MinAge: 8, MaxAge: 12, Price: 50},
		{ID: "c-2", Title: "Watercolor Basics", Category: "Arts & Crafts", Type: "Course", MinAge: 6, MaxAge: 10, Price: 35},
		{ID: "c-3", Title: "Chess Masters", Category: "Games", Type: "Club", MinAge: 0, MaxAge: 16, Price: 0},
		{ID: "c-4", Title: "Rocket Science", Category: "science", Type: "Workshop", MinAge: 10, MaxAge: 14, Price: 120},
		{ID: "c-5", Title: "Pottery", Category: "ARTS", Type: "Course", MinAge: 12, MaxAge: 18, Price: 50},
	}
}
