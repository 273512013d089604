package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/config"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	appHTTP "github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/repository/postgresql"
	workingTimeService "github.com/cmlabs-hris/workingtime-backend-go/internal/service/workingtime"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return err
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	workingTimeRepo := postgresql.NewWorkingTimeRepository(db)
	employeeLocker := postgresql.NewEmployeeLocker(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	workingTimeSvc := workingTimeService.NewWorkingTimeService(
		workingTimeRepo,
		employeeRepo,
		employeeLocker,
		clock.NewSystemClock(cfg.Location()),
		workingtime.RecencyPolicy{WindowDays: cfg.WorkingTime.RecentWindowDays},
	)

	workingTimeHandler := appHTTP.NewWorkingTimeHandler(workingTimeSvc)
	router := appHTTP.NewRouter(logger, JWTService, cfg.App.CORSAllowedOrigins, workingTimeHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down, draining in-flight requests")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
