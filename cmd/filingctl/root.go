package main

import (
	"context"
	"fmt"

	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/docfiling/backend/internal/infrastructure/logger"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is the database and logger a command runs against
type session struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.log.Warn("Error closing database", zap.Error(err))
	}
	_ = s.log.Sync()
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "filingctl",
		Short:        "Operate the document filing database",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSeedCmd(opts),
		newAuditCmd(opts),
		newUserCmd(opts),
		newRegionCmd(opts),
	)
	return cmd
}

// open loads the configuration and connects to the database. sqlite databases
// get their tables created on the spot; postgres is expected to be migrated.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{Level: o.logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(o.logLevel)))
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver == config.DriverSQLite || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	log.Debug("Connected", zap.String("driver", db.Driver()))
	return &session{cfg: cfg, log: log, db: db}, nil
}
