package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/logger"
	"github.com/Aleph-Alpha/floatrouter/v1/postgres"
	"github.com/Aleph-Alpha/floatrouter/v1/qdrant"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the relational schema and the vector collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		var (
			pg  *postgres.Postgres
			log *logger.Logger
		)
		// qdrant's start hook creates the collection
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			log.Info("migration complete", nil, map[string]interface{}{
				"collection": cfg.Qdrant.Collection,
			})
			return nil
		},
			baseOptions(cfg),
			postgres.FXModule,
			qdrant.FXModule,
			fx.Populate(&pg, &log),
		)
	},
}
