package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
	"course-search-service/internal/job"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

type stubCourseService struct {
	page    *domain.Page
	course  *domain.Course
	err     error
	spec    domain.FilterSpec
	written *domain.Course
	calls   []string
}

func (s *stubCourseService) ListAll(_ context.Context, page, size int) (*domain.Page, error) {
	s.calls = append(s.calls, "list")
	if s.err != nil {
		return nil, s.err
	}
	pageable, err := domain.NewPageable(page, size, "", "")
	if err != nil {
		return nil, err
	}

	return domain.NewPage(s.page.Content, pageable, s.page.TotalElements), nil
}

func (s *stubCourseService) Search(_ context.Context, spec domain.FilterSpec) (*domain.Page, error) {
	s.calls = append(s.calls, "search")
	s.spec = spec
	if s.err != nil {
		return nil, s.err
	}

	return domain.NewPage(s.page.Content, spec.Pageable, s.page.TotalElements), nil
}

func (s *stubCourseService) GetByID(_ context.Context, id string) (*domain.Course, error) {
	s.calls = append(s.calls, "get:"+id)

	return s.course, s.err
}

func (s *stubCourseService) Upsert(_ context.Context, c *domain.Course) (*domain.Course, error) {
	s.calls = append(s.calls, "upsert")
	s.written = c
	if s.err != nil {
		return nil, s.err
	}

	return c, nil
}

func (s *stubCourseService) Update(_ context.Context, c *domain.Course) (*domain.Course, error) {
	s.calls = append(s.calls, "update")
	s.written = c
	if s.err != nil {
		return nil, s.err
	}

	return c, nil
}

type stubReindexer struct {
	result *service.ReindexResult
	err    error
}

func (s *stubReindexer) RunNow(context.Context) (*service.ReindexResult, error) {
	return s.result, s.err
}

func newTestApp(svc CourseService, r Reindexer) *fiber.App {
	app := fiber.New()
	courses := NewCourseHandler(svc, validator.New(), zap.NewNop())
	admin := NewAdminHandler(r, zap.NewNop())

	app.Get("/api/search", courses.Search)
	app.Get("/api/search/all", courses.ListAll)
	app.Put("/api/search/update", courses.Upsert)
	app.Get("/api/search/:id", courses.GetByID)
	app.Put("/api/search/:id", courses.Update)
	app.Post("/api/admin/reindex", admin.Reindex)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()

	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))

	return e
}

func samplePage() *domain.Page {
	return &domain.Page{
		Content: []*domain.Course{
			{ID: "c-1", Title: "Painting", Category: "Art", Price: 30},
			{ID: "c-2", Title: "Robotics", Category: "Science", Price: 80},
		},
		TotalElements: 25,
	}
}

func TestCourseHandler_SearchAppliesDefaults(t *testing.T) {
	svc := &stubCourseService{page: samplePage()}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/search", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, svc.spec.Pageable.Page)
	assert.Equal(t, 10, svc.spec.Pageable.Size)
	assert.Equal(t, domain.Sort{Field: domain.FieldPrice, Direction: domain.SortAsc}, svc.spec.Pageable.Sort)

	var page dto.PageResponse
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Len(t, page.Content, 2)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
}

func TestCourseHandler_SearchBindsFilters(t *testing.T) {
	svc := &stubCourseService{page: samplePage()}
	app := newTestApp(svc, nil)

	resp, _ := doRequest(t, app, http.MethodGet,
		"/api/search?category=art&type=COURSE&minAge=0&maxAge=12&minPrice=50&maxPrice=50&page=1&size=5&sortBy=title&sortDir=DESC", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	spec := svc.spec
	assert.Equal(t, "art", spec.Category)
	assert.Equal(t, "COURSE", spec.Type)
	require.NotNil(t, spec.MinAge)
	assert.Equal(t, 0, *spec.MinAge)
	require.NotNil(t, spec.MinPrice)
	require.NotNil(t, spec.MaxPrice)
	assert.Equal(t, 50.0, *spec.MinPrice)
	assert.Equal(t, 50.0, *spec.MaxPrice)
	assert.Equal(t, domain.Sort{Field: domain.FieldTitle, Direction: domain.SortDesc}, spec.Pageable.Sort)
	assert.Equal(t, 5, spec.Pageable.Offset())
}

func TestCourseHandler_SearchRejectsBadParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{name: "non numeric age", query: "minAge=old", wantCode: CodeInvalidParams},
		{name: "zero size", query: "size=0", wantCode: CodeValidation},
		{name: "negative page", query: "page=-1", wantCode: CodeValidation},
		{name: "bad direction", query: "sortDir=sideways", wantCode: CodeValidation},
		{name: "page beyond result window", query: "page=1000&size=10", wantCode: CodeInvalidArgument},
		{name: "page overflows offset", query: "page=9223372036854775807&size=100", wantCode: CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCourseService{page: samplePage()}
			app := newTestApp(svc, nil)

			resp, raw := doRequest(t, app, http.MethodGet, "/api/search?"+tt.query, "")

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, raw).Code)
			assert.Empty(t, svc.calls, "invalid input must not reach the service")
		})
	}
}

func TestCourseHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rejected by index",
			err:        &domain.IndexError{Op: "search", Status: 400, Kind: domain.ErrIndexRejected, Reason: "No mapping found for [rating]"},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidQuery,
		},
		{
			name:       "index unavailable",
			err:        &domain.IndexError{Op: "search", Kind: domain.ErrIndexUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   CodeIndexUnavailable,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubCourseService{err: tt.err}, nil)

			resp, raw := doRequest(t, app, http.MethodGet, "/api/search", "")

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, raw).Code)
		})
	}
}

func TestCourseHandler_ListAll(t *testing.T) {
	svc := &stubCourseService{page: samplePage()}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/search/all?page=2&size=10", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"list"}, svc.calls)

	var page dto.PageResponse
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.Last)
}

func TestCourseHandler_GetByID(t *testing.T) {
	svc := &stubCourseService{course: &domain.Course{ID: "c-1", Title: "Painting"}}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/search/c-1", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var course dto.CourseResponse
	require.NoError(t, json.Unmarshal(raw, &course))
	assert.Equal(t, "Painting", course.Title)
	assert.Equal(t, []string{"get:c-1"}, svc.calls)
}

func TestCourseHandler_GetByIDMissing(t *testing.T) {
	app := newTestApp(&stubCourseService{}, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/search/nope", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, decodeError(t, raw).Code)
}

func TestCourseHandler_Upsert(t *testing.T) {
	svc := &stubCourseService{}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodPut, "/api/search/update",
		`{"id":"c-9","title":"Chess","category":"Games","type":"CLUB","minAge":7,"maxAge":12,"price":20,"nextSessionDate":"2025-07-01T09:00:00Z"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.written)
	assert.Equal(t, "c-9", svc.written.ID)
	assert.Equal(t, 20.0, svc.written.Price)
	require.NotNil(t, svc.written.NextSessionDate)

	var course dto.CourseResponse
	require.NoError(t, json.Unmarshal(raw, &course))
	assert.Equal(t, "2025-07-01T09:00:00Z", course.NextSessionDate)
}

func TestCourseHandler_UpsertWithoutID(t *testing.T) {
	svc := &stubCourseService{err: domain.ErrInvalidArgument}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodPut, "/api/search/update", `{"title":"Chess"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, raw).Code)
}

func TestCourseHandler_UpsertMalformedBody(t *testing.T) {
	svc := &stubCourseService{}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodPut, "/api/search/update", `{"id":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidParams, decodeError(t, raw).Code)
	assert.Empty(t, svc.calls)
}

func TestCourseHandler_UpdateUsesPathID(t *testing.T) {
	svc := &stubCourseService{}
	app := newTestApp(svc, nil)

	resp, _ := doRequest(t, app, http.MethodPut, "/api/search/c-1", `{"title":"Painting II","price":35}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"update"}, svc.calls)
	assert.Equal(t, "c-1", svc.written.ID)
}

func TestCourseHandler_UpdateMismatchedID(t *testing.T) {
	svc := &stubCourseService{}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodPut, "/api/search/c-1", `{"id":"c-2"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, raw).Code)
	assert.Empty(t, svc.calls)
}

func TestCourseHandler_UpdateMissingCourse(t *testing.T) {
	svc := &stubCourseService{err: domain.ErrNotFound}
	app := newTestApp(svc, nil)

	resp, raw := doRequest(t, app, http.MethodPut, "/api/search/c-404", `{"title":"Ghost"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNotFound, decodeError(t, raw).Code)
}

func TestAdminHandler_Reindex(t *testing.T) {
	app := newTestApp(nil, &stubReindexer{result: &service.ReindexResult{Source: "fixture", Count: 20}})

	resp, raw := doRequest(t, app, http.MethodPost, "/api/admin/reindex", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result dto.ReindexResponse
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "fixture", result.Source)
	assert.Equal(t, 20, result.Count)
}

func TestAdminHandler_ReindexInProgress(t *testing.T) {
	app := newTestApp(nil, &stubReindexer{err: job.ErrReindexInProgress})

	resp, raw := doRequest(t, app, http.MethodPost, "/api/admin/reindex", "")

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, CodeReindexRunning, decodeError(t, raw).Code)
}

func TestAdminHandler_ReindexIndexDown(t *testing.T) {
	err := &domain.IndexError{Op: "create_index", Kind: domain.ErrIndexUnavailable}
	app := newTestApp(nil, &stubReindexer{err: err})

	resp, raw := doRequest(t, app, http.MethodPost, "/api/admin/reindex", "")

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, CodeIndexUnavailable, decodeError(t, raw).Code)
}
