package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/router"
)

var queryStrategy string

var queryCmd = &cobra.Command{
	Use:   "query TEXT...",
	Short: "Route questions and print one envelope per question",
	Long: `query routes each argument through one router in order, so the strategy
chosen for later questions reflects the outcome of earlier ones. Each
envelope is printed as JSON.`,
	Example: `  floatrouter query "floats near 45°N with temperature above 20°C"
  floatrouter query --strategy concurrent "floats similar to deep water formation studies"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := router.ParseStrategy(queryStrategy)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		var r *router.Router
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			for _, text := range args {
				env := r.Route(ctx, router.Query{Text: text, Strategy: strategy})
				if err := printJSON(cmd.OutOrStdout(), env); err != nil {
					return err
				}
			}
			return nil
		},
			baseOptions(cfg),
			vectorOptions(),
			routerOptions(),
			fx.Populate(&r),
		)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryStrategy, "strategy", "s", string(router.Adaptive),
		"sql_first, vector_first, concurrent or adaptive")
}
