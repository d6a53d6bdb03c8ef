package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/handler"
	"github.com/jaksoftwares/Backend-Fasthub/internal/logger"
	"github.com/jaksoftwares/Backend-Fasthub/internal/repository"
	"github.com/jaksoftwares/Backend-Fasthub/internal/router"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

const shutdownTimeout = 30 * time.Second

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fasthub",
		Short:        "Fasthub e-commerce backend",
		Long:         `Fasthub serves the shop API: products, customers, orders, repair requests and settings.`,
		SilenceUsage: true,
		RunE:         serve,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API (default)",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations and exit",
			RunE:  migrate,
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Apply migrations and insert the sample catalogue into an empty database",
			RunE:  seed,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("fasthub %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger every command
// shares.
func bootstrap() (*config.Config, *zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	if err != nil {
		log.Warn().Err(err).Msg("continuing without new relic")
	}

	return cfg, &log, loggerService, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories()
	services, err := service.NewService(srv, repos)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return fmt.Errorf("could not create services: %w", err)
	}
	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

// openDatabase connects without starting the HTTP side of the server.
func openDatabase(ctx context.Context) (*database.Database, *zerolog.Logger, error) {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(ctx, cfg, log, loggerService, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to the database")
		return nil, nil, err
	}
	return db, log, nil
}

func migrate(cmd *cobra.Command, args []string) error {
	db, log, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	return database.Migrate(cmd.Context(), log, db)
}

func seed(cmd *cobra.Command, args []string) error {
	db, log, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), log, db); err != nil {
		return err
	}

	seeded, err := database.Seed(cmd.Context(), log, db)
	if err != nil {
		return err
	}
	if !seeded {
		log.Info().Msg("database already has data, seed skipped")
	}
	return nil
}
