package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gym-booking/cmd/bootstrap"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/usecase/commands"
	"gym-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Never expose debug output because of a config mistake
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           gym-booking
// @version         1.0
// @description     Gym session booking admission and booking schema administration.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("starting server", "address", srv.Addr, "mode", gin.Mode())
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "bootstrap" {
		os.Exit(runBootstrap())
	}

	app := fx.New(
		bootstrap.Module,
		fx.Provide(
			func() *gin.Engine {
				return gin.New()
			},
		),
		fx.Invoke(
			startServer,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		slog.Error("failed to stop application cleanly", "error", err)
	}

	slog.Info("application stopped")
}

// runBootstrap applies the booking schema once and exits. Exit code 2 means
// duplicate active bookings must be cleaned up by hand first.
func runBootstrap() int {
	var schemaCmds commands.SchemaCommands
	app := fx.New(
		bootstrap.SchemaModule,
		fx.NopLogger,
		fx.Populate(&schemaCmds),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		slog.Error("failed to start schema bootstrap", "error", err)
		return 1
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			slog.Error("failed to stop schema bootstrap cleanly", "error", err)
		}
	}()

	report, err := schemaCmds.Bootstrap(ctx)
	var dupErr *shared.DuplicateActiveBookingsError
	switch {
	case errors.As(err, &dupErr):
		for _, g := range dupErr.Groups {
			fmt.Fprintf(os.Stderr, "duplicate active bookings: employee=%s date=%s count=%d\n",
				g.EmployeeID, g.BookingDate.Format(time.DateOnly), g.Count)
		}
		return 2
	case err != nil:
		slog.Error("schema bootstrap failed", "error", err)
		return 1
	}

	fmt.Printf("booking schema ok=%t index_ok=%t today_index_ok=%t columns=%d\n",
		report.OK, report.IndexOK, report.TodayIndexOK, len(report.Columns))
	if !report.OK {
		return 1
	}
	return 0
}
