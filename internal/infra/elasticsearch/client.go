package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
)

const (
	searchPath = "/{index}/_search"
	docPath    = "/{index}/_doc/{id}"
	indexPath  = "/{index}"
	bulkPath   = "/_bulk"
)

// Client implements domain.CourseIndex and domain.IndexAdmin against one Elasticsearch index.
type Client struct {
	index   string
	refresh string
	client  *resty.Client
	cb      *gobreaker.CircuitBreaker[*resty.Response]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a new index client.
func New(cfg ClientConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	refresh := cfg.Refresh
	if refresh == "" {
		refresh = "wait_for"
	}

	return &Client{
		index:   cfg.Index,
		refresh: refresh,
		client:  newRestyClient(cfg),
		cb:      newCircuitBreaker("elasticsearch", cfg.CB, logger),
		metrics: m,
		logger:  logger,
	}
}

// Index returns the index name.
func (c *Client) Index() string {
	return c.index
}

// Search executes one page of a filtered query and returns the hits plus the exact total.
func (c *Client) Search(ctx context.Context, q domain.IndexQuery) (*domain.HitPage, error) {
	body, err := BuildSearchRequest(q)
	if err != nil {
		return nil, err
	}

	resp, err := c.execute(ctx, "search", "", func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(body).Post(searchPath)
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, c.rejected("search", "", resp)
	}

	var result SearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, c.malformed("search", "", err)
	}

	courses := make([]*domain.Course, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		course, err := hit.ToDomain()
		if err != nil {
			return nil, c.malformed("search", "", err)
		}
		courses = append(courses, course)
	}

	c.logger.Debug("search completed",
		zap.Int("clauses", len(q.Clauses)),
		zap.Int("offset", q.Offset),
		zap.Int("limit", q.Limit),
		zap.Int64("total", result.Hits.Total.Value),
		zap.Int("took_ms", result.Took),
	)

	return &domain.HitPage{Courses: courses, Total: result.Hits.Total.Value}, nil
}

// Get retrieves a course by id. Returns nil, nil when the document does not exist.
func (c *Client) Get(ctx context.Context, id string) (*domain.Course, error) {
	resp, err := c.execute(ctx, "get", id, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", id).Get(docPath)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		// A missing document answers 404 with found=false; a missing index
		// answers 404 with an error object and is a real failure.
		var result GetResponse
		if json.Unmarshal(resp.Body(), &result) == nil && !result.Found && result.ID != "" {
			return nil, nil
		}

		return nil, c.rejected("get", id, resp)
	}
	if resp.IsError() {
		return nil, c.rejected("get", id, resp)
	}

	var result GetResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, c.malformed("get", id, err)
	}
	if !result.Found {
		return nil, nil
	}

	course, err := decodeSource(result.ID, result.Source)
	if err != nil {
		return nil, c.malformed("get", id, err)
	}

	return course, nil
}

// Exists reports whether a course with the id is indexed.
// A missing index reads as "does not exist".
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	resp, err := c.execute(ctx, "exists", id, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("id", id).Head(docPath)
	})
	if err != nil {
		return false, err
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, c.rejected("exists", id, resp)
	default:
		return true, nil
	}
}

// Put creates or fully replaces the course keyed by its id.
func (c *Client) Put(ctx context.Context, course *domain.Course) error {
	if !course.HasID() {
		return fmt.Errorf("%w: course id is required", domain.ErrInvalidArgument)
	}

	resp, err := c.execute(ctx, "put", course.ID, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetPathParam("id", course.ID).
			SetQueryParam("refresh", c.refresh).
			SetBody(course).
			Put(docPath)
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return c.rejected("put", course.ID, resp)
	}

	return nil
}

// Ping verifies the cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.execute(ctx, "ping", "", func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/")
	})
	if err != nil {
		return err
	}
	if resp.IsError() {
		return c.rejected("ping", "", resp)
	}

	return nil
}

// execute runs one round-trip through the circuit breaker.
// Transport failures and 5xx answers come back as unavailable IndexErrors;
// any other response is returned to the caller for interpretation.
func (c *Client) execute(
	ctx context.Context,
	op, key string,
	send func(r *resty.Request) (*resty.Response, error),
) (*resty.Response, error) {
	start := time.Now()

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := send(c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetPathParam("index", c.index))
		if err != nil {
			return nil, &domain.IndexError{Op: op, Key: key, Kind: domain.ErrIndexUnavailable, Err: err}
		}
		if r.StatusCode() >= http.StatusInternalServerError {
			_, reason := parseError(r.Body())

			return nil, &domain.IndexError{
				Op:     op,
				Key:    key,
				Status: r.StatusCode(),
				Reason: reason,
				Kind:   domain.ErrIndexUnavailable,
			}
		}

		return r, nil
	})

	if err != nil {
		var indexErr *domain.IndexError
		if !errors.As(err, &indexErr) {
			// gobreaker.ErrOpenState or ErrTooManyRequests
			indexErr = &domain.IndexError{Op: op, Key: key, Kind: domain.ErrIndexUnavailable, Err: err}
		}

		c.metrics.ObserveIndex(op, "unavailable", time.Since(start))
		c.logger.Warn("index request failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(indexErr),
			zap.String("state", c.cb.State().String()),
		)

		return nil, indexErr
	}

	outcome := "ok"
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		outcome = "not_found"
	case resp.IsError():
		outcome = "rejected"
	}
	c.metrics.ObserveIndex(op, outcome, time.Since(start))

	return resp, nil
}

func (c *Client) rejected(op, key string, resp *resty.Response) error {
	errType, reason := parseError(resp.Body())
	if errType != "" {
		reason = errType + ": " + reason
	}

	return &domain.IndexError{
		Op:     op,
		Key:    key,
		Status: resp.StatusCode(),
		Reason: reason,
		Kind:   domain.ErrIndexRejected,
	}
}

func (c *Client) malformed(op, key string, err error) error {
	return &domain.IndexError{Op: op, Key: key, Kind: domain.ErrIndexUnavailable, Err: err}
}
