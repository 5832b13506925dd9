package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/minio"
	"github.com/Aleph-Alpha/floatrouter/v1/reconcile"
)

var auditDate string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the reconciliation audit entries stored in MinIO for one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		day := time.Now().UTC()
		if auditDate != "" {
			day, err = time.Parse(time.DateOnly, auditDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", auditDate, err)
			}
		}

		var client *minio.MinioClient
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			entries, err := reconcile.ListAudits(ctx, client, day)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
			baseOptions(cfg),
			minio.FXModule,
			fx.Populate(&client),
		)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditDate, "date", "", "day to list, YYYY-MM-DD in UTC (default today)")
}
