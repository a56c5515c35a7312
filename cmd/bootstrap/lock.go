package bootstrap

import (
	"context"
	"log/slog"

	"gym-booking/internal/infra/lock"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewAdmissionLocker,
	),
)

func NewAdmissionLocker(lc fx.Lifecycle, cfg config.Config) (shared.AdmissionLocker, error) {
	locker, cleanup, err := lock.New(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("admission lock configured", "mode", locker.Mode())

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return locker, nil
}
