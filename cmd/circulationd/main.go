// Command circulationd runs the library circulation service.
//
// Subcommands:
//
//	serve    start the HTTP API backed by PostgreSQL
//	migrate  create or update the database schema
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver for the migrate subcommand
	"github.com/spf13/cobra"

	"github.com/openshelf/circulation/entitystore/postgresengine"
	"github.com/openshelf/circulation/shell"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "circulationd",
		Short:         "Library circulation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := shell.LoadConfig()
			if err != nil {
				return err
			}

			logger := shell.NewLogger(cfg.LogLevel)

			poolConfig, err := cfg.PGXPoolConfig()
			if err != nil {
				return err
			}

			pool, err := pgxpool.NewWithConfig(cmd.Context(), poolConfig)
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			defer pool.Close()

			store, err := postgresengine.NewEntityStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
			if err != nil {
				return err
			}

			handler := shell.NewHTTPHandler(store, logger, cfg)
			server := &http.Server{
				Addr:    cfg.HTTPAddr,
				Handler: shell.NewRouter(handler, logger),
			}

			shutdownCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)

			go func() {
				logger.Info("http server listening", "addr", cfg.HTTPAddr)
				serveErr <- server.ListenAndServe()
			}()

			select {
			case err = <-serveErr:
				return err
			case <-shutdownCtx.Done():
			}

			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err = server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("shutting down http server: %w", err)
			}

			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := shell.LoadConfig()
			if err != nil {
				return err
			}

			logger := shell.NewLogger(cfg.LogLevel)

			db, err := sql.Open("postgres", cfg.PostgresDSN)
			if err != nil {
				return fmt.Errorf("opening postgres connection: %w", err)
			}
			defer db.Close()

			store, err := postgresengine.NewEntityStoreFromSQLDB(db, postgresengine.WithLogger(logger))
			if err != nil {
				return err
			}

			if err = store.Migrate(cmd.Context()); err != nil {
				return err
			}

			logger.Info("schema migration completed")

			return nil
		},
	}
}
