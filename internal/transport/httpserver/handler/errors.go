// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

// Error codes returned in dto.ErrorResponse.
const (
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidQuery     = "INVALID_QUERY"
	CodeIndexUnavailable = "INDEX_UNAVAILABLE"
	CodeReindexRunning   = "REINDEX_IN_PROGRESS"
	CodeInternal         = "INTERNAL_ERROR"
)

// respondError maps the domain error taxonomy onto an HTTP status and error code.
func respondError(c *fiber.Ctx, logger *zap.Logger, op string, err error) error {
	status, code := fiber.StatusInternalServerError, CodeInternal

	var idxErr *domain.IndexError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = fiber.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrIndexRejected):
		status, code = fiber.StatusBadRequest, CodeInvalidQuery
	case errors.Is(err, domain.ErrIndexUnavailable):
		status, code = fiber.StatusServiceUnavailable, CodeIndexUnavailable
	}

	fields := []zap.Field{zap.String("op", op), zap.Int("status", status), zap.Error(err)}
	if errors.As(err, &idxErr) {
		fields = append(fields, zap.String("index_op", idxErr.Op), zap.Int("index_status", idxErr.Status))
	}
	if status >= 500 {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal server error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

// respondValidation writes a 400 with per-field details when available.
func respondValidation(c *fiber.Ctx, err error) error {
	var details validator.ValidationErrors
	if errors.As(err, &details) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    CodeValidation,
			Details: details,
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: err.Error(),
		Code:  CodeValidation,
	})
}
