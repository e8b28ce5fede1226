package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nurpe/contract-archive/internal/config"
	"github.com/nurpe/contract-archive/internal/db"
	"github.com/nurpe/contract-archive/internal/logger"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the collection tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.Environment)

			database, err := db.Open(cfg.DB, cfg.Environment, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() {
				if sqlDB, err := database.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "tables ready")
			return nil
		},
	}
}
