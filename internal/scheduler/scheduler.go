package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-advisor/internal/weather"
)

const probeTimeout = 30 * time.Second

// Reporter is the part of weather.Service the probe exercises.
type Reporter interface {
	Report(ctx context.Context, city, country string, date *weather.Date) (weather.Report, bool, error)
}

// Status is the outcome of the most recent probe run.
type Status struct {
	LastCheck time.Time `json:"lastCheck"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
}

// Scheduler periodically runs the full report pipeline for a probe city so
// that upstream outages show up on /health before users hit them.
type Scheduler struct {
	scheduler *gocron.Scheduler
	reporter  Reporter
	city      string
	interval  time.Duration
	logger    *slog.Logger

	mu     sync.RWMutex
	status Status
}

// New creates a new Scheduler.
func New(reporter Reporter, city string, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		reporter:  reporter,
		city:      city,
		interval:  interval,
		logger:    logger.With("component", "probe"),
	}
}

// Start schedules the probe and starts the underlying scheduler. The first
// run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || s.city == "" {
		s.logger.Info("upstream probe disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.check(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule probe: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("upstream probe started", "city", s.city, "interval", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Status returns the latest probe result. LastCheck is zero until the first run.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) check(ctx context.Context) {
	status := Status{LastCheck: time.Now().UTC(), Healthy: true}

	_, found, err := s.reporter.Report(ctx, s.city, "", nil)
	switch {
	case err != nil:
		status.Healthy = false
		status.Error = failureMessage(err)
		s.logger.Warn("upstream probe failed", "city", s.city, "error", err)
	case !found:
		status.Healthy = false
		status.Error = fmt.Sprintf("probe city %q not found", s.city)
		s.logger.Warn("upstream probe city not found", "city", s.city)
	default:
		s.logger.Debug("upstream probe ok", "city", s.city)
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// failureMessage reduces err to its failure kind. Status is served on /health,
// and the full error may carry upstream URLs or response bodies.
func failureMessage(err error) string {
	if kind := weather.FailureKind(err); kind != nil {
		return kind.Error()
	}
	return "weather lookup failed"
}
