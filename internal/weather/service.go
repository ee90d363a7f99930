package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/i474232898/weather-advisor/internal/metrics"
)

// Service runs the report pipeline: geocode, classify the date, make one
// upstream call, normalize, advise. It holds no per-request state.
type Service struct {
	geocoder *Geocoder
	upstream Upstream
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to determine today's date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(geocoder *Geocoder, upstream Upstream, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		geocoder: geocoder,
		upstream: upstream,
		logger:   logger.With("component", "weather-service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current UTC calendar date.
func (s *Service) Today() Date {
	return DateOf(s.now())
}

// Report geocodes city and resolves weather for date (nil meaning today).
// found is false when the city does not exist; the pipeline stops there.
func (s *Service) Report(ctx context.Context, city, country string, date *Date) (Report, bool, error) {
	loc, found, err := s.geocoder.Resolve(ctx, city, country)
	if err != nil {
		s.logger.Error("geocoding failed", "city", city, "country", country, "error", err)
		metrics.ReportsTotal.WithLabelValues("unknown", kindOf(err)).Inc()
		return Report{}, false, err
	}
	if !found {
		s.logger.Info("city not found", "city", city, "country", country)
		metrics.ReportsTotal.WithLabelValues("unknown", "not_found").Inc()
		return Report{}, false, nil
	}

	report, err := s.resolve(ctx, loc, city, date)
	if err != nil {
		return Report{}, true, err
	}
	return report, true, nil
}

// Resolve fetches and normalizes weather for an already geocoded location.
func (s *Service) Resolve(ctx context.Context, loc Location, date *Date) (Report, error) {
	return s.resolve(ctx, loc, loc.Name, date)
}

func (s *Service) resolve(ctx context.Context, loc Location, city string, date *Date) (Report, error) {
	today := s.Today()
	class := Classify(date, today)

	adapter, err := SelectAdapter(date, today)
	if err != nil {
		s.logger.Info("date outside supported window", "city", city, "class", class, "date", date, "error", err)
		metrics.ReportsTotal.WithLabelValues(class.String(), kindOf(err)).Inc()
		return Report{}, err
	}

	m, err := s.fetch(ctx, adapter, loc)
	if err != nil {
		s.logger.Error("weather lookup failed",
			"city", city,
			"latitude", loc.Latitude,
			"longitude", loc.Longitude,
			"class", class,
			"error", err,
		)
		metrics.ReportsTotal.WithLabelValues(class.String(), kindOf(err)).Inc()
		return Report{}, err
	}

	reportDate := today
	if date != nil {
		reportDate = *date
	}

	metrics.ReportsTotal.WithLabelValues(class.String(), "ok").Inc()
	return NewReport(loc, city, reportDate, m), nil
}

func (s *Service) fetch(ctx context.Context, adapter Adapter, loc Location) (Metrics, error) {
	raw, err := adapter.Fetch(ctx, s.upstream, loc)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, adapter.Class(), err)
	}
	return adapter.Normalize(raw)
}
