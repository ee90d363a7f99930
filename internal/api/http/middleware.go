package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/i474232898/weather-advisor/internal/metrics"
)

const (
	HeaderRequestID = "X-Request-ID"
	// RequestIDKey is the fiber Locals key holding the request id.
	RequestIDKey = "requestid"
)

// RequestID reuses an inbound X-Request-ID or generates a UUID v4, stores it
// in Locals and echoes it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// fasthttp reuses request buffers; values kept past the handler are copied.
		id := utils.CopyString(c.Get(HeaderRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		c.Locals(RequestIDKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// Metrics records request count and latency per route template. Chain errors
// are rendered here so the recorded status is the one sent to the client.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		path := utils.CopyString(c.Route().Path)
		method := utils.CopyString(c.Method())
		status := strconv.Itoa(c.Response().StatusCode())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}
