package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
)

// IndexExists reports whether the course index exists.
func (c *Client) IndexExists(ctx context.Context) (bool, error) {
	resp, err := c.execute(ctx, "index_exists", c.index, func(r *resty.Request) (*resty.Response, error) {
		return r.Head(indexPath)
	})
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, c.rejected("index_exists", c.index, resp)
	default:
		return true, nil
	}
}

// DeleteIndex drops the course index. Deleting a missing index is not an error.
func (c *Client) DeleteIndex(ctx context.Context) error {
	resp, err := c.execute(ctx, "delete_index", c.index, func(r *resty.Request) (*resty.Response, error) {
		return r.Delete(indexPath)
	})
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return c.rejected("delete_index", c.index, resp)
	}

	c.logger.Info("index deleted", zap.String("index", c.index))

	return nil
}

// CreateIndex creates the course index with its mapping.
func (c *Client) CreateIndex(ctx context.Context) error {
	resp, err := c.execute(ctx, "create_index", c.index, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(courseMapping).Put(indexPath)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return c.rejected("create_index", c.index, resp)
	}

	c.logger.Info("index created", zap.String("index", c.index))

	return nil
}

// BulkPut indexes the courses in one _bulk request and returns how many were accepted.
// Per-item failures are reported as a rejection after counting the successes.
func (c *Client) BulkPut(ctx context.Context, courses []*domain.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	body, err := bulkBody(c.index, courses)
	if err != nil {
		return 0, err
	}

	resp, err := c.execute(ctx, "bulk", "", func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetHeader("Content-Type", "application/x-ndjson").
			SetQueryParam("refresh", c.refresh).
			SetBody(body).
			Post(bulkPath)
	})
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, c.rejected("bulk", "", resp)
	}

	var result BulkResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, c.malformed("bulk", "", err)
	}

	var (
		indexed, failed int
		firstFailure    *BulkResponseItem
	)
	for _, item := range result.Items {
		for _, outcome := range item {
			if outcome.Error == nil && outcome.Status < http.StatusMultipleChoices {
				indexed++
				continue
			}
			failed++
			if firstFailure == nil {
				firstFailure = &outcome
			}
		}
	}

	if result.Errors && firstFailure != nil {
		reason := fmt.Sprintf("%d of %d documents failed", failed, len(courses))
		if firstFailure.Error != nil {
			reason += fmt.Sprintf(", first [%s]: %s: %s", firstFailure.ID, firstFailure.Error.Type, firstFailure.Error.Reason)
		}

		return indexed, &domain.IndexError{
			Op:     "bulk",
			Status: firstFailure.Status,
			Reason: reason,
			Kind:   domain.ErrIndexRejected,
		}
	}

	return indexed, nil
}

// bulkBody renders the NDJSON payload: one index action line plus one source line per course.
func bulkBody(index string, courses []*domain.Course) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, course := range courses {
		if !course.HasID() {
			return nil, fmt.Errorf("%w: course without id in bulk payload", domain.ErrInvalidArgument)
		}

		action := map[string]map[string]string{
			"index": {"_index": index, "_id": course.ID},
		}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(course); err != nil {
			return nil, fmt.Errorf("encoding course %q: %w", course.ID, err)
		}
	}

	return buf.Bytes(), nil
}
