package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/leave-management/db"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/datamodel"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations (postgres) or sync the schema (sqlite)",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	gormDB, sqlDB, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Database.Driver == internal.DriverSQLite {
		if migrateRollback {
			return errors.New("rollback is not supported for sqlite")
		}
		if err := gormDB.AutoMigrate(datamodel.Models()...); err != nil {
			return fmt.Errorf("sqlite schema sync: %w", err)
		}
		lg.Info("sqlite schema synced")
		return nil
	}

	if err := db.RunMigrations(ctx, sqlDB, migrateRollback); err != nil {
		return err
	}
	lg.Info("migrations applied", "rollback", migrateRollback)
	return nil
}
