// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (search index reachable within timeout)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(index Pinger, timeout time.Duration) fiber.Handler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if index == nil {
				return false
			}
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			return index.Ping(ctx) == nil
		},
	})
}
