package bootstrap

import (
	"context"

	"gym-booking/internal/infra/jobs"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewScheduler,
	),
	fx.Invoke(func(*jobs.Scheduler) {}),
)

func NewScheduler(lc fx.Lifecycle, cfg config.Config, sweep commands.SweepCommands) (*jobs.Scheduler, error) {
	s, err := jobs.NewScheduler(cfg.Jobs, sweep)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return s.Shutdown()
		},
	})
	return s, nil
}
