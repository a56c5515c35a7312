package bootstrap

import (
	"gym-booking/internal/infra/directory"
	"gym-booking/internal/pkg/metrics"
	"gym-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		fx.Annotate(
			metrics.New,
			fx.As(fx.Self()),
			fx.As(new(commands.AdmissionObserver)),
			fx.As(new(commands.BootstrapObserver)),
			fx.As(new(commands.SweepObserver)),
			fx.As(new(directory.LookupObserver)),
		),
	),
)
