package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/reconcile"
	"github.com/Aleph-Alpha/floatrouter/v1/tracer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass and print its result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		var rec *reconcile.Reconciler
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			res := rec.Reconcile(ctx)
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Status == reconcile.StatusError {
				return fmt.Errorf("reconciliation failed: %s", res.Message)
			}
			return nil
		},
			baseOptions(cfg),
			storeOptions(),
			tracer.FXModule,
			reconcileOptions(cfg),
			fx.Populate(&rec),
		)
	},
}
