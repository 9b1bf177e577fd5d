package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/job"
	"course-search-service/internal/transport/httpserver/dto"
)

// Reindexer runs one locked reindex and waits for it.
type Reindexer interface {
	RunNow(ctx context.Context) (*service.ReindexResult, error)
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	reindexer Reindexer
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(r Reindexer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		reindexer: r,
		logger:    logger,
	}
}

// Reindex handles POST /api/admin/reindex
func (h *AdminHandler) Reindex(c *fiber.Ctx) error {
	h.logger.Info("manual reindex triggered")

	result, err := h.reindexer.RunNow(c.Context())
	if errors.Is(err, job.ErrReindexInProgress) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  CodeReindexRunning,
		})
	}
	if err != nil {
		return respondError(c, h.logger, "reindex", err)
	}

	return c.JSON(dto.FromReindexResult(result))
}
