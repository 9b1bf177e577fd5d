package elasticsearch

import (
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"course-search-service/internal/domain"
)

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// BuildQuery folds the clauses into a single bool query with one filter per clause.
// No clauses yields match_all.
func BuildQuery(clauses []domain.Clause) (*types.Query, error) {
	if len(clauses) == 0 {
		return &types.Query{MatchAll: &types.MatchAllQuery{}}, nil
	}

	filters := make([]types.Query, 0, len(clauses))
	for _, clause := range clauses {
		q, err := clauseQuery(clause)
		if err != nil {
			return nil, err
		}
		filters = append(filters, q)
	}

	return &types.Query{Bool: &types.BoolQuery{Filter: filters}}, nil
}

func clauseQuery(clause domain.Clause) (types.Query, error) {
	switch clause.Kind {
	case domain.ClauseContains:
		// The literal is matched anywhere in the keyword value, so wildcard
		// metacharacters typed by the caller must not act as patterns.
		pattern := "*" + wildcardEscaper.Replace(clause.Text) + "*"
		caseInsensitive := true

		return types.Query{
			Wildcard: map[string]types.WildcardQuery{
				clause.Field + ".keyword": {
					Value:           &pattern,
					CaseInsensitive: &caseInsensitive,
				},
			},
		}, nil

	case domain.ClauseAtLeast:
		bound := types.Float64(clause.Number)

		return types.Query{
			Range: map[string]types.RangeQuery{
				clause.Field: types.NumberRangeQuery{Gte: &bound},
			},
		}, nil

	case domain.ClauseAtMost:
		bound := types.Float64(clause.Number)

		return types.Query{
			Range: map[string]types.RangeQuery{
				clause.Field: types.NumberRangeQuery{Lte: &bound},
			},
		}, nil

	default:
		return types.Query{}, fmt.Errorf("%w: unsupported clause %s on %q", domain.ErrInvalidArgument, clause.Kind, clause.Field)
	}
}

// BuildSort returns the sort for the request, or nil for the index's natural order.
func BuildSort(s domain.Sort) []types.SortCombinations {
	if s.IsUnsorted() {
		return nil
	}

	field := s.Field
	if keywordFields[field] {
		field += ".keyword"
	}

	order := sortorder.Asc
	if s.Direction == domain.SortDesc {
		order = sortorder.Desc
	}

	return []types.SortCombinations{
		&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				field: {Order: &order},
			},
		},
	}
}

// BuildSearchRequest assembles the _search body for one page of results.
// Totals are always tracked exactly so page counts are correct beyond 10k hits.
func BuildSearchRequest(q domain.IndexQuery) (*search.Request, error) {
	query, err := BuildQuery(q.Clauses)
	if err != nil {
		return nil, err
	}

	from := q.Offset
	size := q.Limit

	return &search.Request{
		From:           &from,
		Size:           &size,
		Query:          query,
		Sort:           BuildSort(q.Sort),
		TrackTotalHits: true,
	}, nil
}
