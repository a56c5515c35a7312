package commands

import (
	"context"
	"errors"
	"log/slog"

	"gym-booking/internal/usecase/shared"
)

//go:generate mockgen -source=schema.go -destination=../../../tests/mock/commands/schema.go -package=commandsmock

type SchemaCommands interface {
	Bootstrap(ctx context.Context) (*shared.BootstrapReport, error)
}

type schemaUseCaseImpl struct {
	bootstrapper shared.SchemaBootstrapper
	observer     BootstrapObserver
}

func NewSchemaUseCase(bootstrapper shared.SchemaBootstrapper, observer BootstrapObserver) SchemaCommands {
	return &schemaUseCaseImpl{bootstrapper: bootstrapper, observer: observer}
}

func (uc *schemaUseCaseImpl) Bootstrap(ctx context.Context) (*shared.BootstrapReport, error) {
	report, err := uc.bootstrapper.EnsureBookingSchema(ctx)

	var (
		dupErr     *shared.DuplicateActiveBookingsError
		missingErr *shared.MissingDependencyError
	)
	result := "ok"
	switch {
	case err == nil:
		slog.InfoContext(ctx, "booking schema is up to date",
			"index_ok", report.IndexOK,
			"today_index_ok", report.TodayIndexOK,
			"columns", len(report.Columns))
	case errors.As(err, &dupErr):
		result = "duplicates"
		slog.WarnContext(ctx, "booking schema bootstrap rolled back: duplicate active bookings",
			"groups", len(dupErr.Groups))
	case errors.As(err, &missingErr):
		result = "missing_dependency"
		slog.ErrorContext(ctx, "booking schema bootstrap failed", "error", err)
	default:
		result = "error"
		slog.ErrorContext(ctx, "booking schema bootstrap failed", "error", err)
	}

	if uc.observer != nil {
		uc.observer.ObserveBootstrap(result)
	}
	return report, err
}
