package httpapi

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-advisor/internal/register"
	"github.com/i474232898/weather-advisor/internal/store"
	"github.com/i474232898/weather-advisor/internal/weather"
)

// NewErrorHandler returns the centralized fiber error handler. Every error
// becomes {"error": true, "message": ...} with a status derived from its kind.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := classify(err)
		if code >= fiber.StatusInternalServerError && code != fiber.StatusBadGateway {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals(RequestIDKey),
				"error", err,
			)
		}
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}

// classify maps err to a status code and a client-safe message. Upstream
// failures only expose their kind: the wrapped detail may carry request URLs.
func classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, register.ErrInvalidInput),
		errors.Is(err, weather.ErrUnsupportedDateRange):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, register.MessageNotFound
	case errors.Is(err, weather.ErrForecastUnavailable):
		return fiber.StatusNotFound, weather.ErrForecastUnavailable.Error()
	case errors.Is(err, weather.ErrGeocodingFailure):
		return fiber.StatusBadGateway, weather.ErrGeocodingFailure.Error()
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return fiber.StatusBadGateway, weather.ErrUpstreamUnavailable.Error()
	case errors.Is(err, weather.ErrMalformedUpstreamResponse):
		return fiber.StatusBadGateway, weather.ErrMalformedUpstreamResponse.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
