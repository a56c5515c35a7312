package components

import (
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/usecase"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/queries"
	"gym-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewSchemaUseCase,
		NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// SchemaModule wires only what the bootstrap subcommand needs.
var SchemaModule = fx.Module("schema",
	schemaOption,
	fx.Provide(commands.NewSchemaUseCase),
)

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, observer commands.SweepObserver) commands.SweepCommands {
	return commands.NewSweepUseCase(uow, clk, cfg.Jobs.Location(), observer)
}
