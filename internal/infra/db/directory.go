package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gym-booking/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"   // "pgx" driver for PostgreSQL directory stores
	_ "github.com/microsoft/go-mssqldb" // "sqlserver" driver
)

const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "pgx"
)

// ConnectDirectory opens one of the externally owned directory stores. These
// stores are shared with other systems, so the pool is kept deliberately small.
func ConnectDirectory(name string, cfg config.StoreConfig) (*sql.DB, func(), error) {
	switch cfg.Driver {
	case DriverSQLServer, DriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unsupported directory driver %q for %s store", cfg.Driver, name)
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", name, err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxOpenConns)
	conn.SetConnMaxIdleTime(cfg.IdleTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to ping %s store: %w", name, err)
	}

	cleanup := func() {
		if err := conn.Close(); err != nil {
			slog.Warn("error closing directory store", "store", name, "error", err.Error())
		}
	}

	return conn, cleanup, nil
}
