package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

// CourseService is the catalog capability the course handler serves.
type CourseService interface {
	ListAll(ctx context.Context, page, size int) (*domain.Page, error)
	Search(ctx context.Context, spec domain.FilterSpec) (*domain.Page, error)
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	Upsert(ctx context.Context, course *domain.Course) (*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) (*domain.Course, error)
}

// CourseHandler handles course-related HTTP requests.
type CourseHandler struct {
	service   CourseService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(svc CourseService, v *validator.Validator, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// ListAll handles GET /api/search/all
func (h *CourseHandler) ListAll(c *fiber.Ctx) error {
	req := dto.NewListRequest()
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  CodeInvalidParams,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	page, err := h.service.ListAll(c.Context(), req.Page, req.Size)
	if err != nil {
		return respondError(c, h.logger, "list", err)
	}

	return c.JSON(dto.FromDomainPage(page))
}

// Search handles GET /api/search
func (h *CourseHandler) Search(c *fiber.Ctx) error {
	req := dto.NewSearchRequest()
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  CodeInvalidParams,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	spec, err := req.ToFilterSpec()
	if err != nil {
		return respondError(c, h.logger, "search", err)
	}

	page, err := h.service.Search(c.Context(), spec)
	if err != nil {
		return respondError(c, h.logger, "search", err)
	}

	return c.JSON(dto.FromDomainPage(page))
}

// GetByID handles GET /api/search/:id
func (h *CourseHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")

	course, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "get", err)
	}

	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "course not found",
			Code:  CodeNotFound,
		})
	}

	return c.JSON(dto.FromDomainCourse(course))
}

// Upsert handles PUT /api/search/update
func (h *CourseHandler) Upsert(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  CodeInvalidParams,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	saved, err := h.service.Upsert(c.Context(), req.ToDomain())
	if err != nil {
		return respondError(c, h.logger, "upsert", err)
	}

	return c.JSON(dto.FromDomainCourse(saved))
}

// Update handles PUT /api/search/:id
// The body id may be omitted; when present it must match the path.
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  CodeInvalidParams,
		})
	}

	id := c.Params("id")
	if req.ID != "" && req.ID != id {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "body id does not match path id",
			Code:  CodeInvalidArgument,
		})
	}
	req.ID = id

	if err := h.validator.Validate(&req); err != nil {
		return respondValidation(c, err)
	}

	saved, err := h.service.Update(c.Context(), req.ToDomain())
	if err != nil {
		return respondError(c, h.logger, "update", err)
	}

	return c.JSON(dto.FromDomainCourse(saved))
}
