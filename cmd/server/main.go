package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aidanjbailey/anidopt/internal/config"
	"github.com/aidanjbailey/anidopt/internal/platform/database"
	"github.com/aidanjbailey/anidopt/internal/platform/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "anidopt-catalogue"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "anidopt",
		Short:         "Anidopt animal catalogue service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newSeedCommand())
	return root
}

// app is what every subcommand needs before it can do work.
type app struct {
	cfg *config.ServiceConfig
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (r *app) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Warn("failed to close database", zap.Error(err))
	}
	_ = r.log.Sync()
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalogue schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()
			return database.Migrate(rt.db, rt.log)
		},
	}
}
