// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"course-search-service/internal/metrics"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/transport/httpserver/handler"
	"course-search-service/internal/transport/httpserver/middleware"
	"course-search-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	ReadyTimeout time.Duration
}

// Deps are the collaborators the routes are served by.
type Deps struct {
	Courses   handler.CourseService
	Reindexer handler.Reindexer
	Index     middleware.Pinger
	Validator *validator.Validator
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Deps, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "course-search-service",
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(logger),
		DisableStartupMessage: true,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Index, cfg.ReadyTimeout))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS())
	app.Use(compress.New())

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	courseHandler := handler.NewCourseHandler(deps.Courses, deps.Validator, logger)
	adminHandler := handler.NewAdminHandler(deps.Reindexer, logger)

	registerRoutes(app, courseHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
// Static segments are registered before /:id so they are never captured as an id.
func registerRoutes(app *fiber.App, courseHandler *handler.CourseHandler, adminHandler *handler.AdminHandler) {
	// Health checks are handled by middleware (/livez, /readyz)

	api := app.Group("/api")

	search := api.Group("/search")
	search.Get("/", courseHandler.Search)
	search.Get("/all", courseHandler.ListAll)
	search.Put("/update", courseHandler.Upsert)
	search.Get("/:id", courseHandler.GetByID)
	search.Put("/:id", courseHandler.Update)

	admin := api.Group("/admin")
	admin.Post("/reindex", adminHandler.Reindex)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := handler.CodeInternal
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
			errCode = "HTTP_ERROR"
		}
		if code == fiber.StatusNotFound {
			errCode = handler.CodeNotFound
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithContext(ctx)
}
