package jobs

import (
	"context"
	"log/slog"
	"time"

	"gym-booking/internal/pkg/config"
	"gym-booking/internal/pkg/errs"
	"gym-booking/internal/usecase/commands"

	"github.com/go-co-op/gocron/v2"
)

const sweepTimeout = 2 * time.Minute

// Scheduler runs the booking housekeeping jobs.
type Scheduler struct {
	inner gocron.Scheduler
	sweep commands.SweepCommands
}

func NewScheduler(cfg config.JobsConfig, sweep commands.SweepCommands) (*Scheduler, error) {
	inner, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location()))
	if err != nil {
		return nil, errs.Wrap(err, "create job scheduler")
	}

	s := &Scheduler{inner: inner, sweep: sweep}
	if !cfg.ExpiryEnabled {
		return s, nil
	}

	_, err = inner.NewJob(
		gocron.CronJob(cfg.ExpiryCron, false),
		gocron.NewTask(s.runSweep),
		gocron.WithName("close-past-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = inner.Shutdown()
		return nil, errs.Wrapf(err, "schedule booking sweep %q", cfg.ExpiryCron)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	slog.Info("starting job scheduler", "jobs", len(s.inner.Jobs()))
	s.inner.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.inner.Shutdown()
}

func (s *Scheduler) Jobs() []gocron.Job {
	return s.inner.Jobs()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.sweep.ClosePastBookings(ctx); err != nil {
		slog.Error("booking sweep failed", "error", err)
	}
}
