package bootstrap

import (
	"gym-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	DirectoryModule,
	LockModule,
	JWTModule,
	MetricsModule,
	JobsModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// SchemaModule is the subset needed to run the schema bootstrap from the
// command line, without the HTTP surface or the directory stores.
var SchemaModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	MetricsModule,
	components.SchemaModule,
)
