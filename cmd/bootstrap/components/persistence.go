package components

import (
	"gym-booking/internal/infra/db"
	"gym-booking/internal/infra/readstore"
	"gym-booking/internal/infra/schema"
	"gym-booking/internal/infra/uow"
	"gym-booking/internal/usecase/queries"
	"gym-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
	schemaOption,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork owns the booking repository and the in-transaction reads
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

var schemaOption = fx.Provide(
	fx.Annotate(
		schema.NewBootstrapper,
		fx.As(new(shared.SchemaBootstrapper)),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
