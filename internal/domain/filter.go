package domain

import (
	"fmt"
	"strings"
)

// SortDirection represents the sort direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts asc or desc in any letter case.
// An empty string means ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", fmt.Errorf("%w: sort direction %q must be asc or desc", ErrInvalidArgument, s)
	}
}

// Sort orders results by a single field. An empty Field keeps the index's natural order.
type Sort struct {
	Field     string
	Direction SortDirection
}

// IsUnsorted reports whether no explicit ordering was requested.
func (s Sort) IsUnsorted() bool {
	return s.Field == ""
}

// MaxResultWindow is the deepest hit (from + size) the index serves.
const MaxResultWindow = 10000

// Pageable is a zero-based page window plus ordering.
type Pageable struct {
	Page int // zero-based
	Size int
	Sort Sort
}

// NewPageable validates the page window and sort parameters.
// Preconditions: page >= 0, size > 0, (page+1)*size <= MaxResultWindow and a known
// direction even when sortBy is empty; violations are ErrInvalidArgument.
func NewPageable(page, size int, sortBy, sortDir string) (Pageable, error) {
	p := Pageable{Page: page, Size: size}
	if err := p.validateWindow(); err != nil {
		return Pageable{}, err
	}

	dir, err := ParseSortDirection(sortDir)
	if err != nil {
		return Pageable{}, err
	}

	if sortBy = strings.TrimSpace(sortBy); sortBy != "" {
		p.Sort = Sort{Field: sortBy, Direction: dir}
	}

	return p, nil
}

// Validate checks the page window and a possibly hand-built sort.
func (p Pageable) Validate() error {
	if err := p.validateWindow(); err != nil {
		return err
	}
	if p.Sort.IsUnsorted() {
		return nil
	}
	if _, err := ParseSortDirection(string(p.Sort.Direction)); err != nil {
		return err
	}

	return nil
}

func (p Pageable) validateWindow() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page must be >= 0, got %d", ErrInvalidArgument, p.Page)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", ErrInvalidArgument, p.Size)
	}
	// Division keeps page*size from overflowing.
	if p.Page >= MaxResultWindow/p.Size {
		return fmt.Errorf("%w: page %d of size %d is beyond the first %d results",
			ErrInvalidArgument, p.Page, p.Size, MaxResultWindow)
	}

	return nil
}

// Offset returns the number of hits to skip.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// FilterSpec is the request-scoped set of optional filters plus the page window.
// Strings are absent when empty; numbers are absent only when nil, so 0 is a real bound.
type FilterSpec struct {
	Category string
	Type     string
	MinAge   *int
	MaxAge   *int
	MinPrice *float64
	MaxPrice *float64

	Pageable Pageable
}

// Validate checks the page window and sort of the filter.
func (f FilterSpec) Validate() error {
	return f.Pageable.Validate()
}

// ClauseKind identifies a filter predicate.
type ClauseKind int

const (
	// ClauseContains is a case-insensitive substring match on the field's keyword representation.
	ClauseContains ClauseKind = iota + 1
	// ClauseAtLeast is an inclusive lower bound (field >= Number).
	ClauseAtLeast
	// ClauseAtMost is an inclusive upper bound (field <= Number).
	ClauseAtMost
)

// String returns a readable clause kind.
func (k ClauseKind) String() string {
	switch k {
	case ClauseContains:
		return "contains"
	case ClauseAtLeast:
		return "at_least"
	case ClauseAtMost:
		return "at_most"
	default:
		return fmt.Sprintf("clause(%d)", int(k))
	}
}

// Clause is one predicate of the conjunctive search query.
type Clause struct {
	Kind   ClauseKind
	Field  string
	Text   string  // ClauseContains: lower-cased literal
	Number float64 // ClauseAtLeast, ClauseAtMost
}

// Clauses lists the predicates for every present filter, in a fixed order:
// category, type, minAge, maxAge, minPrice, maxPrice.
// No clauses means the query matches every document.
func (f FilterSpec) Clauses() []Clause {
	clauses := make([]Clause, 0, 6)

	if text := normalizeText(f.Category); text != "" {
		clauses = append(clauses, Clause{Kind: ClauseContains, Field: FieldCategory, Text: text})
	}
	if text := normalizeText(f.Type); text != "" {
		clauses = append(clauses, Clause{Kind: ClauseContains, Field: FieldType, Text: text})
	}
	if f.MinAge != nil {
		clauses = append(clauses, Clause{Kind: ClauseAtLeast, Field: FieldMinAge, Number: float64(*f.MinAge)})
	}
	if f.MaxAge != nil {
		clauses = append(clauses, Clause{Kind: ClauseAtMost, Field: FieldMaxAge, Number: float64(*f.MaxAge)})
	}
	if f.MinPrice != nil {
		clauses = append(clauses, Clause{Kind: ClauseAtLeast, Field: FieldPrice, Number: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, Clause{Kind: ClauseAtMost, Field: FieldPrice, Number: *f.MaxPrice})
	}

	return clauses
}

// IndexQuery turns the filter into the executor's input.
func (f FilterSpec) IndexQuery() IndexQuery {
	return IndexQuery{
		Clauses: f.Clauses(),
		Sort:    f.Pageable.Sort,
		Offset:  f.Pageable.Offset(),
		Limit:   f.Pageable.Size,
	}
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IndexQuery is a conjunction of clauses plus ordering and a hit window.
type IndexQuery struct {
	Clauses []Clause
	Sort    Sort
	Offset  int
	Limit   int
}

// HitPage is one window of matching courses plus the total match count of the whole index.
type HitPage struct {
	Courses []*Course
	Total   int64
}
