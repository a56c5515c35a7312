//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"gym-booking/cmd/bootstrap"
	"gym-booking/cmd/bootstrap/components"
	"gym-booking/internal/infra/db"
	"gym-booking/internal/pkg/config"
	"gym-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

// postgresServer is the container shared by every suite of one test binary.
// The booking store and both directory stores live in one database on it.
type postgresServer struct {
	host string
	port nat.Port
}

func (s postgresServer) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, s.host, s.port.Port(), database)
}

var (
	serverOnce sync.Once
	server     postgresServer
	serverErr  error
)

func sharedPostgres(t *testing.T) postgresServer {
	serverOnce.Do(func() {
		server, serverErr = startPostgres()
	})
	require.NoError(t, serverErr, "failed to start PostgreSQL container")
	return server
}

// startPostgres runs a throwaway PostgreSQL. Ryuk removes it when the test
// binary exits.
func startPostgres() (postgresServer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       "postgres",
		},
		Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
		Cmd:   []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off", "-c", "max_connections=200"},
		WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
			return postgresServer{host: host, port: port}.dsn("postgres")
		}).WithStartupTimeout(time.Minute),
		Labels: map[string]string{"purpose": "gym-booking-e2e"},
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return postgresServer{}, err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return postgresServer{}, err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return postgresServer{}, err
	}
	slog.Info("postgres container ready", "host", host, "port", port.Port())
	return postgresServer{host: host, port: port}, nil
}

// createDatabase gives the calling suite its own database and drops it when
// the suite ends.
func createDatabase(t *testing.T, srv postgresServer) config.DBConfig {
	name := "gym_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, srv.dsn("postgres"))
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// CREATE DATABASE fails while another session is copying template1
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		admin, err := pgxpool.New(ctx, srv.dsn("postgres"))
		if err != nil {
			slog.Warn("cleanup connection failed", "database", name, "error", err.Error())
			return
		}
		defer admin.Close()

		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     srv.host,
		Port:     srv.port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "Asia/Tokyo",
		MaxConns: 20,
	}
}

// testConfig points both directory stores at the suite database through the
// pgx database/sql driver, so the alias resolver sees the legacy tables that
// dbtest creates.
func testConfig(srv postgresServer, dbConfig config.DBConfig, override func(*config.Config)) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbConfig

	dsn := srv.dsn(dbConfig.DBName)
	cfg.Directory.EmployeeDriver = db.DriverPostgres
	cfg.Directory.EmployeeDSN = dsn
	cfg.Directory.CardDriver = db.DriverPostgres
	cfg.Directory.CardDSN = dsn

	if override != nil {
		override(&cfg)
	}
	return cfg
}

// startApp runs the production fx graph with the pool and config replaced.
func startApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	var router *gin.Engine

	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		bootstrap.MetricsModule,
		bootstrap.DirectoryModule,
		bootstrap.LockModule,
		bootstrap.JobsModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start application")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop application", "error", err.Error())
		}
	})

	require.NotNil(t, router, "application started without a router")
	return router
}

// SharedSuite is embedded by every e2e suite. Each suite gets its own
// database holding the pre-deployment schema; the booking table is created
// by calling the bootstrap endpoint.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config

	// ConfigOverride adjusts the test config before the app is built.
	ConfigOverride func(*config.Config)
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	srv := sharedPostgres(t)
	dbConfig := createDatabase(t, srv)

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)
	require.NoError(t, dbtest.ResetDB(pool), "failed to create legacy schema")

	s.DB = pool
	s.Config = testConfig(srv, dbConfig, s.ConfigOverride)
	s.Router = startApp(t, pool, s.Config)
}

func (s *SharedSuite) SetupSubTest() {
	// every subtest starts from the pre-deployment schema
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
}
