package domain

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    SortDirection
		wantErr bool
	}{
		{"asc", SortAsc, false},
		{"ASC", SortAsc, false},
		{"Desc", SortDesc, false},
		{" desc ", SortDesc, false},
		{"", SortAsc, false},
		{"descending", "", true},
		{"up", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortDirection(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSortDirection(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewPageable(t *testing.T) {
	p, err := NewPageable(2, 10, "price", "DESC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", p.Offset())
	}
	if p.Sort.Field != "price" || p.Sort.Direction != SortDesc {
		t.Errorf("unexpected sort %+v", p.Sort)
	}

	unsorted, err := NewPageable(0, 5, "", "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !unsorted.Sort.IsUnsorted() {
		t.Error("expected unsorted pageable")
	}

	last, err := NewPageable(99, 100, "", "")
	if err != nil {
		t.Fatalf("last page inside the result window must be accepted: %v", err)
	}
	if last.Offset()+last.Size != MaxResultWindow {
		t.Errorf("expected window end %d, got %d", MaxResultWindow, last.Offset()+last.Size)
	}
}

func TestNewPageable_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		sortDir string
	}{
		{"negative page", -1, 10, "asc"},
		{"zero size", 0, 0, "asc"},
		{"negative size", 0, -3, "asc"},
		{"unknown direction", 0, 10, "random"},
		{"beyond result window", 100, 100, "asc"},
		{"offset overflow", math.MaxInt / 2, 10, "asc"},
		{"size above result window", 0, MaxResultWindow + 1, "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPageable(tt.page, tt.size, "price", tt.sortDir)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestNewPageable_UnknownDirectionWithoutSortField(t *testing.T) {
	_, err := NewPageable(0, 5, "", "sideways")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPageable_Validate_HandBuiltSort(t *testing.T) {
	p := Pageable{Page: 0, Size: 10, Sort: Sort{Field: "price", Direction: "sideways"}}
	if !errors.Is(p.Validate(), ErrInvalidArgument) {
		t.Error("expected invalid direction to be rejected")
	}
}

func TestFilterSpec_Clauses_Empty(t *testing.T) {
	spec := FilterSpec{Category: "", Type: "   "}
	if got := spec.Clauses(); len(got) != 0 {
		t.Errorf("expected no clauses, got %+v", got)
	}
}

func TestFilterSpec_Clauses_AllPresentInStableOrder(t *testing.T) {
	spec := FilterSpec{
		Category: "Arts & Crafts",
		Type:     "CLUB",
		MinAge:   intPtr(6),
		MaxAge:   intPtr(12),
		MinPrice: floatPtr(10.5),
		MaxPrice: floatPtr(99.99),
	}

	want := []Clause{
		{Kind: ClauseContains, Field: FieldCategory, Text: "arts & crafts"},
		{Kind: ClauseContains, Field: FieldType, Text: "club"},
		{Kind: ClauseAtLeast, Field: FieldMinAge, Number: 6},
		{Kind: ClauseAtMost, Field: FieldMaxAge, Number: 12},
		{Kind: ClauseAtLeast, Field: FieldPrice, Number: 10.5},
		{Kind: ClauseAtMost, Field: FieldPrice, Number: 99.99},
	}

	got := spec.Clauses()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clauses() = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(spec.Clauses(), got) {
		t.Error("Clauses() must be deterministic")
	}
}

func TestFilterSpec_Clauses_ZeroIsPresent(t *testing.T) {
	spec := FilterSpec{MinAge: intPtr(0), MaxPrice: floatPtr(0)}

	got := spec.Clauses()
	if len(got) != 2 {
		t.Fatalf("expected 2 clauses for zero-valued filters, got %d", len(got))
	}
	if got[0].Field != FieldMinAge || got[0].Number != 0 {
		t.Errorf("unexpected minAge clause %+v", got[0])
	}
	if got[1].Field != FieldPrice || got[1].Kind != ClauseAtMost {
		t.Errorf("unexpected maxPrice clause %+v", got[1])
	}
}

func TestFilterSpec_IndexQuery(t *testing.T) {
	pageable, err := NewPageable(3, 25, "price", "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := FilterSpec{Category: "music", Pageable: pageable}.IndexQuery()

	if q.Offset != 75 || q.Limit != 25 {
		t.Errorf("unexpected window offset=%d limit=%d", q.Offset, q.Limit)
	}
	if q.Sort.Field != "price" || q.Sort.Direction != SortDesc {
		t.Errorf("unexpected sort %+v", q.Sort)
	}
	if len(q.Clauses) != 1 {
		t.Errorf("expected 1 clause, got %d", len(q.Clauses))
	}
}

func TestClauseKind_String(t *testing.T) {
	if ClauseContains.String() != "contains" || ClauseAtMost.String() != "at_most" {
		t.Error("unexpected clause kind names")
	}
	if ClauseKind(42).String() != "clause(42)" {
		t.Errorf("unexpected unknown kind name %q", ClauseKind(42).String())
	}
}
