package elasticsearch

import (
	"encoding/json"
	"fmt"

	"course-search-service/internal/domain"
)

// SearchResponse is the subset of the _search response the client reads.
type SearchResponse struct {
	Took     int  `json:"took"`
	TimedOut bool `json:"timed_out"`
	Hits     struct {
		Total struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Hit is one search hit.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// ToDomain decodes the hit source. The document id wins when the source carries none.
func (h Hit) ToDomain() (*domain.Course, error) {
	return decodeSource(h.ID, h.Source)
}

// GetResponse is the GET /{index}/_doc/{id} response.
type GetResponse struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

// BulkResponse is the subset of the _bulk response the client reads.
type BulkResponse struct {
	Took   int                           `json:"took"`
	Errors bool                          `json:"errors"`
	Items  []map[string]BulkResponseItem `json:"items"`
}

// BulkResponseItem is the per-document outcome of a bulk action.
type BulkResponseItem struct {
	ID     string       `json:"_id"`
	Status int          `json:"status"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the error object returned by Elasticsearch.
type ErrorDetail struct {
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	RootCause []struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"root_cause"`
}

type errorResponse struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

func decodeSource(id string, source json.RawMessage) (*domain.Course, error) {
	var course domain.Course
	if err := json.Unmarshal(source, &course); err != nil {
		return nil, fmt.Errorf("decoding course %q: %w", id, err)
	}
	if course.ID == "" {
		course.ID = id
	}

	return &course, nil
}

// parseError extracts the engine's error type and most specific reason.
// It falls back to the raw body when the payload is not an Elasticsearch error.
func parseError(body []byte) (errType, reason string) {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Error) == 0 {
		return "", string(body)
	}

	var detail ErrorDetail
	if err := json.Unmarshal(resp.Error, &detail); err != nil {
		// Some endpoints return "error" as a plain string.
		var msg string
		if json.Unmarshal(resp.Error, &msg) == nil {
			return "", msg
		}

		return "", string(body)
	}

	if len(detail.RootCause) > 0 && detail.RootCause[0].Reason != "" {
		return detail.Type, detail.RootCause[0].Reason
	}

	return detail.Type, detail.Reason
}
