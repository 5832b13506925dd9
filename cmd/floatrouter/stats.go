package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/floatrouter/v1/dualstore"
	"github.com/Aleph-Alpha/floatrouter/v1/postgres"
	"github.com/Aleph-Alpha/floatrouter/v1/qdrant"
	"github.com/Aleph-Alpha/floatrouter/v1/vectordb"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print float counts in both stores and whether they agree",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		var svc *dualstore.Service
		return runOnce(cmd.Context(), func(ctx context.Context) error {
			st, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
			baseOptions(cfg),
			postgres.FXModule,
			qdrant.FXModule,
			fx.Provide(
				func(p *postgres.Postgres) dualstore.StructuredStore { return p },
				func(s vectordb.Service) dualstore.VectorStore { return s },
				func() dualstore.Embedder { return countOnlyEmbedder{} },
			),
			dualstore.FXModule,
			fx.Populate(&svc),
		)
	},
}

// countOnlyEmbedder lets stats build a dual store without embedding
// credentials; Stats never embeds.
type countOnlyEmbedder struct{}

func (countOnlyEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding is not configured for stats")
}
