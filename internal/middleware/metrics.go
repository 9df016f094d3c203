package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Metrics records request count, latency and in-flight gauge per route
// pattern, so /api/reports/:id is one series regardless of the id.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}

		// Method and route alias fasthttp buffers; label values must own their memory.
		method := utils.CopyString(c.Method())
		route = utils.CopyString(route)

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
