package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"course-search-service/internal/metrics"
)

// Metrics records request count and latency per route template.
// The route template keeps label cardinality bounded for paths like /api/search/:id.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		path := c.Route().Path
		status := strconv.Itoa(responseStatus(c, err))
		m.ObserveHTTP(c.Method(), path, status, time.Since(start))

		return err
	}
}
