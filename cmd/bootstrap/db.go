package bootstrap

import (
	"context"
	"log/slog"

	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the booking store pool. Admissions hold a connection for the
// whole locked count-and-insert, so its usage is exported for scraping.
func NewDB(lc fx.Lifecycle, cfg config.Config, m *metrics.Metrics) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	slog.Info("booking store connected",
		"host", cfg.DB.Host,
		"database", cfg.DB.DBName,
		"max_conns", pool.Config().MaxConns,
	)

	m.WatchPool("booking_store", func() metrics.PoolStats {
		st := pool.Stat()
		return metrics.PoolStats{
			Acquired: st.AcquiredConns(),
			Idle:     st.IdleConns(),
			Total:    st.TotalConns(),
		}
	})

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
