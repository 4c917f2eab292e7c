// cmd/tools/assessment-admin/migrate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finops-assessment/internal/common/database"
	"finops-assessment/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the assessment tables if they do not exist",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer func() { _ = pg.Close() }()

	ctx := cmd.Context()
	if err := pg.Ping(ctx); err != nil {
		return err
	}
	if err := store.Migrate(ctx, pg.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Info("schema is up to date", map[string]interface{}{
		"database": cfg.Database.Postgres.Database,
	})
	return nil
}
