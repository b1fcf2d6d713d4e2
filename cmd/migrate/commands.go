package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/timerapp/timerapp-backend/pkg/config"
	"github.com/timerapp/timerapp-backend/pkg/db"
	"github.com/timerapp/timerapp-backend/pkg/logger"
	"github.com/timerapp/timerapp-backend/pkg/migrate"
)

type rootOptions struct {
	Dir string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage timerapp database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", migrate.DefaultDir, "goose migrations directory (Postgres set; SQLite lives in <dir>/sqlite)")

	cmd.AddCommand(
		newGooseCommand(opts, "up", "Apply all pending migrations"),
		newGooseCommand(opts, "down", "Roll back the most recent migration"),
		newGooseCommand(opts, "status", "Print applied and pending migrations"),
		newToVersionCommand(opts),
		newCreateCommand(opts),
		newValidateCommand(opts),
	)
	return cmd
}

func newGooseCommand(opts *rootOptions, command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, sqlDB *sql.DB, dialect string) error {
				return migrate.Run(ctx, sqlDB, dialect, dirFor(opts.Dir, dialect), command)
			})
		},
	}
}

func newToVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "to-version <YYYYMMDDHHMMSS>",
		Short: "Migrate up or down to the given version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, sqlDB *sql.DB, dialect string) error {
				return migrate.MigrateToVersion(ctx, sqlDB, dialect, dirFor(opts.Dir, dialect), args[0])
			})
		},
	}
}

func newCreateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Scaffold a Postgres and SQLite migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := migrate.CreateSQLMigration(opts.Dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
			return nil
		},
	}
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check migration filenames and goose headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, dir := range []string{opts.Dir, filepath.Join(opts.Dir, migrate.SQLiteSubdir)} {
				if err := migrate.ValidateDir(dir); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
			return nil
		},
	}
}

func dirFor(dir, dialect string) string {
	if dialect == migrate.DialectSQLite {
		return filepath.Join(dir, migrate.SQLiteSubdir)
	}
	return dir
}

// withDatabase loads config, opens the configured database and hands its
// *sql.DB to fn.
func withDatabase(ctx context.Context, fn func(ctx context.Context, sqlDB *sql.DB, dialect string) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { err = multierr.Append(err, client.Close()) }()

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("sql database: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})
	logg.Info(ctx, "migrate ready")

	return fn(ctx, sqlDB, client.Dialect())
}
