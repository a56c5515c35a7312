package bootstrap

import (
	"context"
	"time"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/infra/directory"
	"gym-booking/internal/pkg/clock"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var DirectoryModule = fx.Module("directory",
	fx.Provide(
		NewDirectory,
	),
)

type DirectoryResult struct {
	fx.Out

	Directory commands.EmployeeDirectory
	Commands  commands.DirectoryCommands
}

// NewDirectory connects both directory stores. A store with a mapping file
// uses it as-is; otherwise its layout is discovered from the catalog and
// cached for the configured TTL.
func NewDirectory(lc fx.Lifecycle, cfg config.Config, observer directory.LookupObserver, clk clock.Clock) (DirectoryResult, error) {
	employees, employeeCache, err := openStore(lc, "employee", cfg.Directory.EmployeeStore(), cfg.Directory.CacheTTL, clk)
	if err != nil {
		return DirectoryResult{}, err
	}
	cards, cardCache, err := openStore(lc, "card", cfg.Directory.CardStore(), cfg.Directory.CacheTTL, clk)
	if err != nil {
		return DirectoryResult{}, err
	}

	return DirectoryResult{
		Directory: directory.NewDirectory(employees, cards, observer),
		Commands:  commands.NewDirectoryUseCase(employeeCache, cardCache),
	}, nil
}

func openStore(lc fx.Lifecycle, name string, cfg config.StoreConfig, ttl time.Duration, clk clock.Clock) (directory.Store, commands.ResolverCache, error) {
	dialect, err := directory.DialectFor(cfg.Driver)
	if err != nil {
		return directory.Store{}, nil, err
	}

	conn, cleanup, err := db.ConnectDirectory(name, cfg)
	if err != nil {
		return directory.Store{}, nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	store := directory.Store{
		Name:    name,
		DB:      conn,
		Dialect: dialect,
		Timeout: cfg.QueryTimeout,
	}

	if cfg.MappingFile != "" {
		static, err := directory.LoadStaticResolver(cfg.MappingFile)
		if err != nil {
			cleanup()
			return directory.Store{}, nil, err
		}
		store.Resolver = static
		return store, nil, nil
	}

	cache := directory.NewCachingResolver(directory.NewAliasResolver(conn, dialect, cfg.QueryTimeout), ttl, clk)
	store.Resolver = cache
	return store, cache, nil
}
