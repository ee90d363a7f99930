package httpapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-advisor/internal/register"
	"github.com/i474232898/weather-advisor/internal/scheduler"
	"github.com/i474232898/weather-advisor/internal/store"
	"github.com/i474232898/weather-advisor/internal/weather"
)

const serviceName = "weather-advisor"

var validate = validator.New()

// WeatherReporter runs the report pipeline for a city and optional date.
type WeatherReporter interface {
	Report(ctx context.Context, city, country string, date *weather.Date) (weather.Report, bool, error)
}

// ProbeStatus exposes the latest upstream probe result.
type ProbeStatus interface {
	Status() scheduler.Status
}

// Deps are the services the HTTP layer dispatches to. Probe may be nil.
type Deps struct {
	Weather        WeatherReporter
	Registers      *register.Service
	Probe          ProbeStatus
	RequestTimeout time.Duration
	AllowedOrigins string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Use(RequestID(), Metrics())

	app.Get("/health", healthHandler(deps.Probe))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	origins := deps.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + HeaderRequestID,
	}))

	api.Get("/weather", weatherHandler(deps.Weather, deps.RequestTimeout))

	registers := api.Group("/registers")
	registers.Get("/", func(c *fiber.Ctx) error {
		all, err := deps.Registers.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(all)
	})

	registers.Get("/:id", func(c *fiber.Ctx) error {
		id, err := registerID(c)
		if err != nil {
			return err
		}
		r, err := deps.Registers.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(r)
	})

	registers.Post("/", func(c *fiber.Ctx) error {
		in, err := bindInput(c)
		if err != nil {
			return err
		}
		created, result, err := deps.Registers.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(createResponse{Result: result, Register: created})
	})

	registers.Put("/:id", func(c *fiber.Ctx) error {
		id, err := registerID(c)
		if err != nil {
			return err
		}
		in, err := bindInput(c)
		if err != nil {
			return err
		}
		result, err := deps.Registers.Update(c.UserContext(), id, in)
		return sendResult(c, result, err)
	})

	registers.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := registerID(c)
		if err != nil {
			return err
		}
		result, err := deps.Registers.Delete(c.UserContext(), id)
		return sendResult(c, result, err)
	})
}

// weatherQuery holds the query parameters of GET /api/weather.
type weatherQuery struct {
	City    string `validate:"required"`
	Country string
	Date    string `validate:"omitempty,datetime=2006-01-02"`
}

func weatherHandler(reporter WeatherReporter, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := weatherQuery{
			City:    strings.TrimSpace(c.Query("city")),
			Country: strings.TrimSpace(c.Query("country")),
			Date:    strings.TrimSpace(c.Query("date")),
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, queryError(err))
		}

		var date *weather.Date
		if q.Date != "" {
			d, err := weather.ParseDate(q.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			date = &d
		}

		// The request context is cancelled on server shutdown.
		ctx := context.Context(c.Context())
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		report, found, err := reporter.Report(ctx, q.City, q.Country, date)
		if err != nil {
			return err
		}
		if !found {
			return fiber.NewError(fiber.StatusNotFound, "city not found")
		}
		return c.JSON(report)
	}
}

func healthHandler(probe ProbeStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"service": serviceName,
		}
		if probe != nil {
			st := probe.Status()
			body["upstream"] = st
			if !st.LastCheck.IsZero() && !st.Healthy {
				body["status"] = "degraded"
			}
		}
		return c.JSON(body)
	}
}

type createResponse struct {
	register.Result
	Register register.Register `json:"register"`
}

func registerID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}
	return int64(id), nil
}

func bindInput(c *fiber.Ctx) (register.Input, error) {
	var in register.Input
	if err := c.BodyParser(&in); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return in, nil
}

// sendResult writes a mutation Result. A missing register is reported in
// the Result envelope with 404 rather than through the error handler.
func sendResult(c *fiber.Ctx, result register.Result, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(result)
	}
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func queryError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "City":
			return "city is required"
		case "Date":
			return "date must be in YYYY-MM-DD format"
		}
	}
	return err.Error()
}
