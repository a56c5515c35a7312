package bootstrap

import (
	"log/slog"

	"gym-booking/internal/handler/middleware"
	"gym-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
	fx.Invoke(func(*slog.Logger) {}),
)

// NewLogger also installs the logger as the slog default, then records the
// settings that decide how admissions behave.
func NewLogger(cfg config.Config) *slog.Logger {
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()
	logger.Info("configuration loaded",
		"lock_mode", cfg.Admission.LockMode,
		"employee_driver", cfg.Directory.EmployeeDriver,
		"card_driver", cfg.Directory.CardDriver,
		"expiry_enabled", cfg.Jobs.ExpiryEnabled,
	)
	return logger
}
