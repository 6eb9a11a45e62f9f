package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request counts and latency per route. The
// route pattern is used instead of the raw path so ids do not explode
// the label space.
func (handler *Handler) MetricsMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	path := c.Route().Path
	if path == "" {
		path = c.Path()
	}
	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}
	}

	handler.collectors.HTTPRequestsTotal.
		WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
	handler.collectors.HTTPRequestDuration.
		WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
	return err
}
